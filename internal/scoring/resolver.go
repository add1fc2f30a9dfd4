package scoring

import (
	"sort"
	"strings"
)

// synonyms maps common criterion keys to the attribute names the extractor
// actually emits. Checked after an exact key match and before the
// substring fallback.
var synonyms = map[string]string{
	"years_experience":  "work_experience_years",
	"experience_years":  "work_experience_years",
	"education":         "education_level",
	"education_degree":  "education_level",
	"field_of_study":    "education_field",
	"job_title":         "last_job_title",
	"company":           "last_company",
	"stability":         "job_stability_months",
	"industry":          "industry_type",
	"responsibility":    "responsibility_level",
	"sepidar":           "sepidar_skill",
	"excel":             "excel_skill",
	"office":            "office_skill",
	"english":           "english_level",
	"financial_reports": "financial_reports_experience",
	"cost_calculation":  "cost_calculation_experience",
	"warehouse":         "warehouse_experience",
	"organization":      "organization_type",
	"software":          "software_skills",
}

// Resolve finds the attribute value for a criterion key, tolerating naming
// mismatches between criteria and the extracted attributes. Lookup order:
// exact key, static synonym table, case-insensitive substring match in
// either direction. The first match wins.
func Resolve(attrs map[string]any, key string) (any, bool) {
	if len(attrs) == 0 {
		return nil, false
	}

	if value, ok := attrs[key]; ok {
		return value, true
	}

	lower := strings.ToLower(key)
	if mapped, ok := synonyms[lower]; ok {
		if value, ok := attrs[mapped]; ok {
			return value, true
		}
	}

	// Sorted iteration keeps the fallback deterministic when several
	// attribute keys would match.
	attrKeys := make([]string, 0, len(attrs))
	for attrKey := range attrs {
		attrKeys = append(attrKeys, attrKey)
	}
	sort.Strings(attrKeys)

	for _, attrKey := range attrKeys {
		attrLower := strings.ToLower(attrKey)
		if strings.Contains(attrLower, lower) || strings.Contains(lower, attrLower) {
			return attrs[attrKey], true
		}
	}

	return nil, false
}
