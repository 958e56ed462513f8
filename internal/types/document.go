package types

import (
	"slices"
	"strings"
)

// SchemaVersion tags documents produced by this module
const SchemaVersion = "v1.0.0"

// Document is the full structured resume in JSON Resume shape.
// Every section key is always present when marshalled; call Normalize after decoding.
type Document struct {
	Basics       Basics        `json:"basics"`
	Work         []Work        `json:"work"`
	Volunteer    []Volunteer   `json:"volunteer"`
	Education    []Education   `json:"education"`
	Awards       []Award       `json:"awards"`
	Publications []Publication `json:"publications"`
	Skills       []Skill       `json:"skills"`
	Languages    []Language    `json:"languages"`
	Interests    []Interest    `json:"interests"`
	References   []Reference   `json:"references"`
	Projects     []Project     `json:"projects"`
	Meta         Meta          `json:"meta"`
}

// Meta carries the style and schema tags of a document
type Meta struct {
	StyleID       int    `json:"styleId"`
	SchemaVersion string `json:"schemaVersion"`
}

// Basics holds the personal details of the candidate
type Basics struct {
	Name     string    `json:"name,omitempty"`
	Label    string    `json:"label,omitempty"`
	Image    string    `json:"image,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	URL      string    `json:"url,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Location *Location `json:"location,omitempty"`
	Profiles []Profile `json:"profiles,omitempty"`
}

// Location is a postal location
type Location struct {
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Region      string `json:"region,omitempty"`
}

// Profile is a social network profile
type Profile struct {
	Network  string `json:"network,omitempty"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Work is one position held at an employer
type Work struct {
	Name       string   `json:"name,omitempty"`
	Position   string   `json:"position,omitempty"`
	URL        string   `json:"url,omitempty"`
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// Volunteer is one volunteering engagement
type Volunteer struct {
	Organization string   `json:"organization,omitempty"`
	Position     string   `json:"position,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// Education is one degree or course of study
type Education struct {
	Institution string   `json:"institution,omitempty"`
	URL         string   `json:"url,omitempty"`
	Area        string   `json:"area,omitempty"`
	StudyType   string   `json:"studyType,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Score       string   `json:"score,omitempty"`
	Courses     []string `json:"courses,omitempty"`
}

// Award is an award or certification
type Award struct {
	Title   string `json:"title,omitempty"`
	Date    string `json:"date,omitempty"`
	Awarder string `json:"awarder,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Publication is a published work
type Publication struct {
	Name        string `json:"name,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	URL         string `json:"url,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// Skill is a named skill with optional level and keywords
type Skill struct {
	Name     string   `json:"name,omitempty"`
	Level    string   `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Language is a spoken language
type Language struct {
	Language string `json:"language,omitempty"`
	Fluency  string `json:"fluency,omitempty"`
}

// Interest is a personal or professional interest
type Interest struct {
	Name     string   `json:"name,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Reference is a professional reference
type Reference struct {
	Name      string `json:"name,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// Project is a personal or professional project
type Project struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	URL         string   `json:"url,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// NewDocument returns an empty, shape-valid document for a style
func NewDocument(styleID int) Document {
	doc := Document{Meta: Meta{StyleID: styleID, SchemaVersion: SchemaVersion}}
	doc.Normalize()
	return doc
}

// Normalize replaces nil section lists with empty ones
func (d *Document) Normalize() {
	if d.Work == nil {
		d.Work = []Work{}
	}
	if d.Volunteer == nil {
		d.Volunteer = []Volunteer{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Awards == nil {
		d.Awards = []Award{}
	}
	if d.Publications == nil {
		d.Publications = []Publication{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	if d.Interests == nil {
		d.Interests = []Interest{}
	}
	if d.References == nil {
		d.References = []Reference{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Meta.SchemaVersion == "" {
		d.Meta.SchemaVersion = SchemaVersion
	}
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	out := d
	out.Basics = d.Basics.clone()
	out.Work = cloneEntries(d.Work, Work.clone)
	out.Volunteer = cloneEntries(d.Volunteer, Volunteer.clone)
	out.Education = cloneEntries(d.Education, Education.clone)
	out.Awards = append([]Award{}, d.Awards...)
	out.Publications = append([]Publication{}, d.Publications...)
	out.Skills = cloneEntries(d.Skills, Skill.clone)
	out.Languages = append([]Language{}, d.Languages...)
	out.Interests = cloneEntries(d.Interests, Interest.clone)
	out.References = append([]Reference{}, d.References...)
	out.Projects = cloneEntries(d.Projects, Project.clone)
	return out
}

// Section returns the current content of a section as a typed section
func (d Document) Section(name SectionName) TypedSection {
	switch name {
	case SectionBasics:
		return BasicsSection{Basics: d.Basics}
	case SectionWork:
		return WorkSection{Items: d.Work}
	case SectionVolunteer:
		return VolunteerSection{Items: d.Volunteer}
	case SectionEducation:
		return EducationSection{Items: d.Education}
	case SectionAwards:
		return AwardsSection{Items: d.Awards}
	case SectionPublications:
		return PublicationsSection{Items: d.Publications}
	case SectionSkills:
		return SkillsSection{Items: d.Skills}
	case SectionLanguages:
		return LanguagesSection{Items: d.Languages}
	case SectionInterests:
		return InterestsSection{Items: d.Interests}
	case SectionReferences:
		return ReferencesSection{Items: d.References}
	case SectionProjects:
		return ProjectsSection{Items: d.Projects}
	}
	return nil
}

// MergeSection folds new content into the document.
// Basics is merged field by field; list entries are upserted by their identity key.
// Placeholder values never overwrite real content.
func (d *Document) MergeSection(ts TypedSection) {
	switch s := ts.(type) {
	case BasicsSection:
		d.Basics = mergeBasics(d.Basics, s.Basics)
	case WorkSection:
		d.Work = upsert(d.Work, s.Items, Work.key, mergeWork)
	case VolunteerSection:
		d.Volunteer = upsert(d.Volunteer, s.Items, Volunteer.key, mergeVolunteer)
	case EducationSection:
		d.Education = upsert(d.Education, s.Items, Education.key, mergeEducation)
	case AwardsSection:
		d.Awards = upsert(d.Awards, s.Items, Award.key, mergeAward)
	case PublicationsSection:
		d.Publications = upsert(d.Publications, s.Items, Publication.key, mergePublication)
	case SkillsSection:
		d.Skills = upsert(d.Skills, s.Items, Skill.key, mergeSkill)
	case LanguagesSection:
		d.Languages = upsert(d.Languages, s.Items, Language.key, mergeLanguage)
	case InterestsSection:
		d.Interests = upsert(d.Interests, s.Items, Interest.key, mergeInterest)
	case ReferencesSection:
		d.References = upsert(d.References, s.Items, Reference.key, mergeReference)
	case ProjectsSection:
		d.Projects = upsert(d.Projects, s.Items, Project.key, mergeProject)
	}
	d.Normalize()
}

// placeholderValues are filler strings some providers emit for unknown fields
var placeholderValues = map[string]bool{
	"company name":    true,
	"university name": true,
	"skill":           true,
	"project name":    true,
	"job title":       true,
	"field of study":  true,
	"unknown":         true,
	"n/a":             true,
	"none":            true,
}

// IsPlaceholder reports whether a value is empty or filler text
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || placeholderValues[v]
}

func pick(current, incoming string) string {
	if IsPlaceholder(incoming) {
		return current
	}
	return strings.TrimSpace(incoming)
}

func pickList(current, incoming []string) []string {
	var merged []string
	seen := make(map[string]bool)
	for _, v := range append(append([]string{}, current...), incoming...) {
		key := strings.ToLower(strings.TrimSpace(v))
		if IsPlaceholder(v) || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, strings.TrimSpace(v))
	}
	return merged
}

func identity(parts ...string) []string {
	normalized := make([]string, 0, len(parts))
	empty := true
	for _, p := range parts {
		if IsPlaceholder(p) {
			p = ""
		}
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			empty = false
		}
		normalized = append(normalized, p)
	}
	if empty {
		return nil
	}
	return normalized
}

// compatible reports whether an incoming identity can describe an existing entry.
// The leading part (organization, institution or name) must be present and equal;
// each remaining part must be equal or missing on one side.
func compatible(cur, in []string) bool {
	if len(cur) == 0 || len(in) == 0 || in[0] == "" || cur[0] != in[0] {
		return false
	}
	for i := 1; i < len(in) && i < len(cur); i++ {
		if in[i] != "" && cur[i] != "" && in[i] != cur[i] {
			return false
		}
	}
	return true
}

// upsert merges incoming entries into current. An incoming entry is merged into the entry with
// the same identity, or else into the single compatible entry (e.g. same employer, no position given).
// Unmatched entries are appended unless they carry no content.
func upsert[T Entry](current, incoming []T, key func(T) []string, merge func(T, T) T) []T {
	out := append([]T{}, current...)
	for _, in := range incoming {
		if i := matchEntry(out, key(in), key); i >= 0 {
			out[i] = merge(out[i], in)
			continue
		}
		var zero T
		if merged := merge(zero, in); !IsEmptyEntry(merged) {
			out = append(out, merged)
		}
	}
	return out
}

func matchEntry[T Entry](entries []T, k []string, key func(T) []string) int {
	if k == nil {
		return -1
	}
	candidate, candidates := -1, 0
	for i := range entries {
		cur := key(entries[i])
		if slices.Equal(cur, k) {
			return i
		}
		if compatible(cur, k) {
			candidate = i
			candidates++
		}
	}
	if candidates == 1 {
		return candidate
	}
	return -1
}

func cloneEntries[T any](in []T, clone func(T) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, clone(v))
	}
	return out
}

func mergeBasics(cur, in Basics) Basics {
	cur.Name = pick(cur.Name, in.Name)
	cur.Label = pick(cur.Label, in.Label)
	cur.Image = pick(cur.Image, in.Image)
	cur.Email = pick(cur.Email, in.Email)
	cur.Phone = pick(cur.Phone, in.Phone)
	cur.URL = pick(cur.URL, in.URL)
	cur.Summary = pick(cur.Summary, in.Summary)
	if in.Location != nil {
		loc := Location{}
		if cur.Location != nil {
			loc = *cur.Location
		}
		loc.Address = pick(loc.Address, in.Location.Address)
		loc.PostalCode = pick(loc.PostalCode, in.Location.PostalCode)
		loc.City = pick(loc.City, in.Location.City)
		loc.CountryCode = pick(loc.CountryCode, in.Location.CountryCode)
		loc.Region = pick(loc.Region, in.Location.Region)
		cur.Location = &loc
	}
	for _, p := range in.Profiles {
		found := false
		for i := range cur.Profiles {
			if strings.EqualFold(cur.Profiles[i].Network, p.Network) {
				cur.Profiles[i].Username = pick(cur.Profiles[i].Username, p.Username)
				cur.Profiles[i].URL = pick(cur.Profiles[i].URL, p.URL)
				found = true
			}
		}
		if !found && !IsPlaceholder(p.Network) {
			cur.Profiles = append(cur.Profiles, p)
		}
	}
	return cur
}

func (b Basics) clone() Basics {
	out := b
	if b.Location != nil {
		loc := *b.Location
		out.Location = &loc
	}
	out.Profiles = append([]Profile(nil), b.Profiles...)
	return out
}

func (w Work) key() []string { return identity(w.Name, w.Position) }
func (w Work) clone() Work {
	w.Highlights = append([]string(nil), w.Highlights...)
	return w
}

func mergeWork(cur, in Work) Work {
	cur.Name = pick(cur.Name, in.Name)
	cur.Position = pick(cur.Position, in.Position)
	cur.URL = pick(cur.URL, in.URL)
	cur.StartDate = pick(cur.StartDate, in.StartDate)
	cur.EndDate = pick(cur.EndDate, in.EndDate)
	cur.Summary = pick(cur.Summary, in.Summary)
	cur.Highlights = pickList(cur.Highlights, in.Highlights)
	return cur
}

func (v Volunteer) key() []string { return identity(v.Organization, v.Position) }
func (v Volunteer) clone() Volunteer {
	v.Highlights = append([]string(nil), v.Highlights...)
	return v
}

func mergeVolunteer(cur, in Volunteer) Volunteer {
	cur.Organization = pick(cur.Organization, in.Organization)
	cur.Position = pick(cur.Position, in.Position)
	cur.URL = pick(cur.URL, in.URL)
	cur.StartDate = pick(cur.StartDate, in.StartDate)
	cur.EndDate = pick(cur.EndDate, in.EndDate)
	cur.Summary = pick(cur.Summary, in.Summary)
	cur.Highlights = pickList(cur.Highlights, in.Highlights)
	return cur
}

func (e Education) key() []string { return identity(e.Institution, e.StudyType) }
func (e Education) clone() Education {
	e.Courses = append([]string(nil), e.Courses...)
	return e
}

func mergeEducation(cur, in Education) Education {
	cur.Institution = pick(cur.Institution, in.Institution)
	cur.URL = pick(cur.URL, in.URL)
	cur.Area = pick(cur.Area, in.Area)
	cur.StudyType = pick(cur.StudyType, in.StudyType)
	cur.StartDate = pick(cur.StartDate, in.StartDate)
	cur.EndDate = pick(cur.EndDate, in.EndDate)
	cur.Score = pick(cur.Score, in.Score)
	cur.Courses = pickList(cur.Courses, in.Courses)
	return cur
}

func (a Award) key() []string { return identity(a.Title) }

func mergeAward(cur, in Award) Award {
	cur.Title = pick(cur.Title, in.Title)
	cur.Date = pick(cur.Date, in.Date)
	cur.Awarder = pick(cur.Awarder, in.Awarder)
	cur.Summary = pick(cur.Summary, in.Summary)
	return cur
}

func (p Publication) key() []string { return identity(p.Name) }

func mergePublication(cur, in Publication) Publication {
	cur.Name = pick(cur.Name, in.Name)
	cur.Publisher = pick(cur.Publisher, in.Publisher)
	cur.ReleaseDate = pick(cur.ReleaseDate, in.ReleaseDate)
	cur.URL = pick(cur.URL, in.URL)
	cur.Summary = pick(cur.Summary, in.Summary)
	return cur
}

func (s Skill) key() []string { return identity(s.Name) }
func (s Skill) clone() Skill {
	s.Keywords = append([]string(nil), s.Keywords...)
	return s
}

func mergeSkill(cur, in Skill) Skill {
	cur.Name = pick(cur.Name, in.Name)
	cur.Level = pick(cur.Level, in.Level)
	cur.Keywords = pickList(cur.Keywords, in.Keywords)
	return cur
}

func (l Language) key() []string { return identity(l.Language) }

func mergeLanguage(cur, in Language) Language {
	cur.Language = pick(cur.Language, in.Language)
	cur.Fluency = pick(cur.Fluency, in.Fluency)
	return cur
}

func (i Interest) key() []string { return identity(i.Name) }
func (i Interest) clone() Interest {
	i.Keywords = append([]string(nil), i.Keywords...)
	return i
}

func mergeInterest(cur, in Interest) Interest {
	cur.Name = pick(cur.Name, in.Name)
	cur.Keywords = pickList(cur.Keywords, in.Keywords)
	return cur
}

func (r Reference) key() []string { return identity(r.Name) }

func mergeReference(cur, in Reference) Reference {
	cur.Name = pick(cur.Name, in.Name)
	cur.Reference = pick(cur.Reference, in.Reference)
	return cur
}

func (p Project) key() []string { return identity(p.Name) }
func (p Project) clone() Project {
	p.Highlights = append([]string(nil), p.Highlights...)
	p.Keywords = append([]string(nil), p.Keywords...)
	p.Roles = append([]string(nil), p.Roles...)
	return p
}

func mergeProject(cur, in Project) Project {
	cur.Name = pick(cur.Name, in.Name)
	cur.Description = pick(cur.Description, in.Description)
	cur.Highlights = pickList(cur.Highlights, in.Highlights)
	cur.Keywords = pickList(cur.Keywords, in.Keywords)
	cur.StartDate = pick(cur.StartDate, in.StartDate)
	cur.EndDate = pick(cur.EndDate, in.EndDate)
	cur.URL = pick(cur.URL, in.URL)
	cur.Roles = pickList(cur.Roles, in.Roles)
	return cur
}
