package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/hire-signal/internal/taxonomy"
)

// Recommendation suggests how to close the gaps of one category.
type Recommendation struct {
	Category taxonomy.Category `json:"category"`
	Skills   []string          `json:"skills"`
	Actions  []string          `json:"actions"`
}

var actions = map[taxonomy.Category][]string{
	taxonomy.CategoryLanguage: {
		"Consider online coding bootcamps or courses",
		"Practice with coding challenges on platforms like LeetCode or HackerRank",
		"Build personal projects to demonstrate proficiency",
	},
	taxonomy.CategoryWebFramework: {
		"Complete framework-specific tutorials and documentation",
		"Build full-stack web applications",
		"Contribute to open-source projects",
	},
	taxonomy.CategoryCloud: {
		"Obtain cloud certifications (AWS, Azure, GCP)",
		"Practice with free tier cloud services",
		"Deploy personal projects to cloud platforms",
	},
	taxonomy.CategoryDataScience: {
		"Complete data science courses or bootcamps",
		"Work on Kaggle competitions",
		"Build and showcase data analysis projects",
	},
}

// Recommendations groups the required and preferred gaps that no candidate skill covers
// by category, in category order. Partially covered gaps are left out.
func Recommendations(gaps []Gap) []Recommendation {
	byCategory := map[taxonomy.Category][]string{}
	for _, g := range gaps {
		if g.Closest != "" {
			continue
		}
		if !slices.Contains(byCategory[g.Category], g.Skill) {
			byCategory[g.Category] = append(byCategory[g.Category], g.Skill)
		}
	}

	categories := make([]taxonomy.Category, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	slices.Sort(categories)

	out := make([]Recommendation, 0, len(categories))
	for _, c := range categories {
		skills := byCategory[c]
		slices.Sort(skills)
		out = append(out, Recommendation{Category: c, Skills: skills, Actions: actionsFor(c)})
	}
	return out
}

func actionsFor(c taxonomy.Category) []string {
	if a, ok := actions[c]; ok {
		return slices.Clone(a)
	}
	if c == "" {
		return []string{"Review the job description for skills outside the known taxonomy"}
	}
	return []string{fmt.Sprintf("Develop %s skills through relevant courses and practice", strings.ReplaceAll(string(c), "_", " "))}
}
