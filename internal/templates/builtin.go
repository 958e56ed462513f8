package templates

import "github.com/jonathan/resume-builder/internal/types"

// Built-in style ids, one per supported JSON Resume theme
const (
	StyleClassy          = 1
	StyleElegant         = 2
	StyleKendall         = 3
	StyleCora            = 4
	StyleEven            = 5
	StyleLowmess         = 6
	StyleWaterfall       = 7
	StyleStraightforward = 8
	StyleSceptile        = 9
	StyleBufferbloat     = 10
	StyleModern          = 11
	StyleMSResume        = 12
	StyleProjects        = 13
	StyleUmennel         = 14
	StyleEvenCrewshin    = 15
	StyleStackoverflowRU = 16
)

func builtinStyles() []TemplateRequirements {
	theme := func(id int, name, pkg string, category Category, version, author string) TemplateRequirements {
		return TemplateRequirements{
			StyleID:    id,
			Name:       name,
			NPMPackage: pkg,
			Category:   category,
			Version:    version,
			Author:     author,
		}
	}

	projects := theme(StyleProjects, "Projects", "jsonresume-theme-projects", CategoryModern, "0.30.0", "jsonresume")
	projects.Description = "Project-centric layout"
	projects.RequiredSections = []types.SectionName{types.SectionBasics, types.SectionProjects, types.SectionSkills}

	return []TemplateRequirements{
		theme(StyleClassy, "Classy", "jsonresume-theme-classy", CategoryProfessional, "1.0.9", "JaredCubilla"),
		theme(StyleElegant, "Elegant", "jsonresume-theme-elegant", CategoryProfessional, "1.0.0", "jsonresume"),
		theme(StyleKendall, "Kendall", "jsonresume-theme-kendall", CategoryModern, "1.0.0", "jsonresume"),
		theme(StyleCora, "Cora", "jsonresume-theme-cora", CategoryProfessional, "0.1.1", "lechuckcaptain"),
		theme(StyleEven, "Even", "jsonresume-theme-even", CategoryMinimalist, "0.23.0", "jsonresume"),
		theme(StyleLowmess, "Lowmess", "jsonresume-theme-lowmess", CategoryCreative, "0.0.11", "alecLomas"),
		theme(StyleWaterfall, "Waterfall", "jsonresume-theme-waterfall", CategoryMinimalist, "1.0.2", "jsonresume"),
		theme(StyleStraightforward, "Straightforward", "jsonresume-theme-straightforward", CategoryProfessional, "0.2.0", "jsonresume"),
		theme(StyleSceptile, "Sceptile", "jsonresume-theme-sceptile", CategoryCreative, "1.0.5", "jsonresume"),
		theme(StyleBufferbloat, "Bufferbloat", "jsonresume-theme-bufferbloat", CategoryModern, "1.0.2", "jsonresume"),
		theme(StyleModern, "Modern", "jsonresume-theme-modern", CategoryModern, "0.0.18", "jsonresume"),
		theme(StyleMSResume, "MS Resume", "jsonresume-theme-msresume", CategoryProfessional, "0.1.0", "jsonresume"),
		projects,
		theme(StyleUmennel, "Umennel", "jsonresume-theme-umennel", CategoryCreative, "0.1.1", "umennel"),
		theme(StyleEvenCrewshin, "Even Crewshin", "jsonresume-theme-even-crewshin", CategoryMinimalist, "0.41.0", "crewshin"),
		theme(StyleStackoverflowRU, "Stack Overflow RU", "jsonresume-theme-stackoverflow-ru", CategoryProfessional, "3.4.1", "jsonresume"),
	}
}
