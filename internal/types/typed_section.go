package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TypedSection is the closed set of parsed section shapes.
// Each variant wraps the entries of exactly one section kind.
type TypedSection interface {
	Section() SectionName
	Entries() []Entry
	isTypedSection()
}

// Entry is one object inside a section (the basics object or one list item)
type Entry interface {
	Fields() []Field
}

// Field is a typed view over one entry field
type Field struct {
	Name  string
	Text  string
	Items []string
	List  bool
}

// Present reports whether the field carries non-placeholder content
func (f Field) Present() bool {
	if f.List {
		for _, item := range f.Items {
			if !IsPlaceholder(item) {
				return true
			}
		}
		return false
	}
	return !IsPlaceholder(f.Text)
}

func text(name, value string) Field        { return Field{Name: name, Text: value} }
func list(name string, items []string) Field { return Field{Name: name, Items: items, List: true} }

// BasicsSection wraps the basics object
type BasicsSection struct{ Basics Basics }

// WorkSection wraps work entries
type WorkSection struct{ Items []Work }

// VolunteerSection wraps volunteer entries
type VolunteerSection struct{ Items []Volunteer }

// EducationSection wraps education entries
type EducationSection struct{ Items []Education }

// AwardsSection wraps award entries
type AwardsSection struct{ Items []Award }

// PublicationsSection wraps publication entries
type PublicationsSection struct{ Items []Publication }

// SkillsSection wraps skill entries
type SkillsSection struct{ Items []Skill }

// LanguagesSection wraps language entries
type LanguagesSection struct{ Items []Language }

// InterestsSection wraps interest entries
type InterestsSection struct{ Items []Interest }

// ReferencesSection wraps reference entries
type ReferencesSection struct{ Items []Reference }

// ProjectsSection wraps project entries
type ProjectsSection struct{ Items []Project }

func (BasicsSection) Section() SectionName       { return SectionBasics }
func (WorkSection) Section() SectionName         { return SectionWork }
func (VolunteerSection) Section() SectionName    { return SectionVolunteer }
func (EducationSection) Section() SectionName    { return SectionEducation }
func (AwardsSection) Section() SectionName       { return SectionAwards }
func (PublicationsSection) Section() SectionName { return SectionPublications }
func (SkillsSection) Section() SectionName       { return SectionSkills }
func (LanguagesSection) Section() SectionName    { return SectionLanguages }
func (InterestsSection) Section() SectionName    { return SectionInterests }
func (ReferencesSection) Section() SectionName   { return SectionReferences }
func (ProjectsSection) Section() SectionName     { return SectionProjects }

func (BasicsSection) isTypedSection()       {}
func (WorkSection) isTypedSection()         {}
func (VolunteerSection) isTypedSection()    {}
func (EducationSection) isTypedSection()    {}
func (AwardsSection) isTypedSection()       {}
func (PublicationsSection) isTypedSection() {}
func (SkillsSection) isTypedSection()       {}
func (LanguagesSection) isTypedSection()    {}
func (InterestsSection) isTypedSection()    {}
func (ReferencesSection) isTypedSection()   {}
func (ProjectsSection) isTypedSection()     {}

func (s BasicsSection) Entries() []Entry       { return []Entry{s.Basics} }
func (s WorkSection) Entries() []Entry         { return asEntries(s.Items) }
func (s VolunteerSection) Entries() []Entry    { return asEntries(s.Items) }
func (s EducationSection) Entries() []Entry    { return asEntries(s.Items) }
func (s AwardsSection) Entries() []Entry       { return asEntries(s.Items) }
func (s PublicationsSection) Entries() []Entry { return asEntries(s.Items) }
func (s SkillsSection) Entries() []Entry       { return asEntries(s.Items) }
func (s LanguagesSection) Entries() []Entry    { return asEntries(s.Items) }
func (s InterestsSection) Entries() []Entry    { return asEntries(s.Items) }
func (s ReferencesSection) Entries() []Entry   { return asEntries(s.Items) }
func (s ProjectsSection) Entries() []Entry     { return asEntries(s.Items) }

func asEntries[T Entry](items []T) []Entry {
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

// Fields returns the typed field view of the basics object
func (b Basics) Fields() []Field {
	fields := []Field{
		text("name", b.Name), text("label", b.Label), text("image", b.Image), text("email", b.Email),
		text("phone", b.Phone), text("url", b.URL), text("summary", b.Summary),
	}
	if b.Location != nil {
		fields = append(fields, text("location", strings.TrimSpace(strings.Join([]string{
			b.Location.Address, b.Location.City, b.Location.Region, b.Location.CountryCode,
		}, " "))))
	}
	return fields
}

func (w Work) Fields() []Field {
	return []Field{
		text("name", w.Name), text("position", w.Position), text("url", w.URL), text("startDate", w.StartDate),
		text("endDate", w.EndDate), text("summary", w.Summary), list("highlights", w.Highlights),
	}
}

func (v Volunteer) Fields() []Field {
	return []Field{
		text("organization", v.Organization), text("position", v.Position), text("url", v.URL),
		text("startDate", v.StartDate), text("endDate", v.EndDate), text("summary", v.Summary),
		list("highlights", v.Highlights),
	}
}

func (e Education) Fields() []Field {
	return []Field{
		text("institution", e.Institution), text("url", e.URL), text("area", e.Area),
		text("studyType", e.StudyType), text("startDate", e.StartDate), text("endDate", e.EndDate),
		text("score", e.Score), list("courses", e.Courses),
	}
}

func (a Award) Fields() []Field {
	return []Field{text("title", a.Title), text("date", a.Date), text("awarder", a.Awarder), text("summary", a.Summary)}
}

func (p Publication) Fields() []Field {
	return []Field{
		text("name", p.Name), text("publisher", p.Publisher), text("releaseDate", p.ReleaseDate),
		text("url", p.URL), text("summary", p.Summary),
	}
}

func (s Skill) Fields() []Field {
	return []Field{text("name", s.Name), text("level", s.Level), list("keywords", s.Keywords)}
}

func (l Language) Fields() []Field {
	return []Field{text("language", l.Language), text("fluency", l.Fluency)}
}

func (i Interest) Fields() []Field {
	return []Field{text("name", i.Name), list("keywords", i.Keywords)}
}

func (r Reference) Fields() []Field {
	return []Field{text("name", r.Name), text("reference", r.Reference)}
}

func (p Project) Fields() []Field {
	return []Field{
		text("name", p.Name), text("description", p.Description), list("highlights", p.Highlights),
		list("keywords", p.Keywords), text("startDate", p.StartDate), text("endDate", p.EndDate),
		text("url", p.URL), list("roles", p.Roles),
	}
}

// FieldByName looks up a field on an entry
func FieldByName(e Entry, name string) (Field, bool) {
	for _, f := range e.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsEmptyEntry reports whether no field of the entry carries content
func IsEmptyEntry(e Entry) bool {
	for _, f := range e.Fields() {
		if f.Present() {
			return false
		}
	}
	return true
}

// IsEmptySection reports whether a section carries no content at all
func IsEmptySection(ts TypedSection) bool {
	if ts == nil {
		return true
	}
	for _, e := range ts.Entries() {
		if !IsEmptyEntry(e) {
			return false
		}
	}
	return true
}

// CloneSection returns a deep copy of a typed section
func CloneSection(ts TypedSection) TypedSection {
	if ts == nil {
		return nil
	}
	doc := NewDocument(0)
	switch s := ts.(type) {
	case BasicsSection:
		doc.Basics = s.Basics
	case WorkSection:
		doc.Work = s.Items
	case VolunteerSection:
		doc.Volunteer = s.Items
	case EducationSection:
		doc.Education = s.Items
	case AwardsSection:
		doc.Awards = s.Items
	case PublicationsSection:
		doc.Publications = s.Items
	case SkillsSection:
		doc.Skills = s.Items
	case LanguagesSection:
		doc.Languages = s.Items
	case InterestsSection:
		doc.Interests = s.Items
	case ReferencesSection:
		doc.References = s.Items
	case ProjectsSection:
		doc.Projects = s.Items
	}
	return doc.Clone().Section(ts.Section())
}

// EmptySection returns the zero-content variant for a section
func EmptySection(name SectionName) TypedSection {
	return NewDocument(0).Section(name)
}

// MarshalSection encodes the section in its document form (object for basics, list otherwise)
func MarshalSection(ts TypedSection) ([]byte, error) {
	if ts == nil {
		return []byte("null"), nil
	}
	switch s := ts.(type) {
	case BasicsSection:
		return json.Marshal(s.Basics)
	case WorkSection:
		return json.Marshal(nonNil(s.Items))
	case VolunteerSection:
		return json.Marshal(nonNil(s.Items))
	case EducationSection:
		return json.Marshal(nonNil(s.Items))
	case AwardsSection:
		return json.Marshal(nonNil(s.Items))
	case PublicationsSection:
		return json.Marshal(nonNil(s.Items))
	case SkillsSection:
		return json.Marshal(nonNil(s.Items))
	case LanguagesSection:
		return json.Marshal(nonNil(s.Items))
	case InterestsSection:
		return json.Marshal(nonNil(s.Items))
	case ReferencesSection:
		return json.Marshal(nonNil(s.Items))
	case ProjectsSection:
		return json.Marshal(nonNil(s.Items))
	}
	return nil, fmt.Errorf("unsupported section type %T", ts)
}

// UnmarshalSection decodes the document form of a section
func UnmarshalSection(name SectionName, data []byte) (TypedSection, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	doc := NewDocument(0)
	var err error
	switch name {
	case SectionBasics:
		err = json.Unmarshal(data, &doc.Basics)
	case SectionWork:
		err = json.Unmarshal(data, &doc.Work)
	case SectionVolunteer:
		err = json.Unmarshal(data, &doc.Volunteer)
	case SectionEducation:
		err = json.Unmarshal(data, &doc.Education)
	case SectionAwards:
		err = json.Unmarshal(data, &doc.Awards)
	case SectionPublications:
		err = json.Unmarshal(data, &doc.Publications)
	case SectionSkills:
		err = json.Unmarshal(data, &doc.Skills)
	case SectionLanguages:
		err = json.Unmarshal(data, &doc.Languages)
	case SectionInterests:
		err = json.Unmarshal(data, &doc.Interests)
	case SectionReferences:
		err = json.Unmarshal(data, &doc.References)
	case SectionProjects:
		err = json.Unmarshal(data, &doc.Projects)
	default:
		return nil, &InvalidSectionError{Name: string(name)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s section: %w", name, err)
	}
	return doc.Section(name), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
