package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResumeRecord is the structured result of resume extraction. Section fields
// stay polymorphic (string, list or mapping) because different schema variants
// of the extraction prompt produce different shapes for the same field.
//
// Keys the resume schema requires are always encoded, as null when absent, so
// an encoded record validates against the schema it was decoded from.
type ResumeRecord struct {
	FullName            Value    `json:"full_name"`
	Email               Value    `json:"email_id"`
	Phone               Value    `json:"phone"`
	ProfessionalSummary Value    `json:"professional_summary"`
	GitHub              Value    `json:"github_portfolio,omitzero"`
	LinkedIn            Value    `json:"linkedin_id,omitzero"`
	Designation         Value    `json:"designation"`
	Certifications      Value    `json:"certifications,omitzero"`
	Skills              Value    `json:"skills"`
	Education           Value    `json:"education"`
	WorkExperience      Value    `json:"work_experience"`
	Projects            Value    `json:"projects,omitzero"`
	Awards              Value    `json:"awards,omitzero"`
	FaceImages          []string `json:"face_images"`
}

// recordKeys lists, per canonical key, the alternative keys accepted on input.
// Keys are compared after normalizeKey, so "Work Experience" matches
// "work_experience" without an explicit alias.
var recordKeys = []struct {
	canonical string
	aliases   []string
}{
	{"full_name", []string{"name", "candidate_name"}},
	{"email_id", []string{"email", "email_address"}},
	{"phone", []string{"phone_number", "mobile"}},
	{"professional_summary", []string{"summary", "profile"}},
	{"github_portfolio", []string{"github", "github_url"}},
	{"linkedin_id", []string{"linkedin", "linkedin_url"}},
	{"designation", []string{"title", "current_title"}},
	{"certifications", []string{"certificates"}},
	{"skills", []string{"primary_skills", "technical_skills"}},
	{"education", nil},
	{"work_experience", []string{"experience", "employment_history"}},
	{"projects", nil},
	{"awards", []string{"awards_recognitions", "achievements"}},
	{"face_images", nil},
}

// normalizeKey lowercases a key and folds spaces and hyphens to underscores.
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "_")
	return strings.ReplaceAll(key, "-", "_")
}

// UnmarshalJSON decodes a record from any of the observed schema variants.
func (r *ResumeRecord) UnmarshalJSON(data []byte) error {
	var root Value
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	if root.Kind != KindMapping {
		return fmt.Errorf("resume record must be a JSON object, got %s", root.Kind)
	}

	byKey := make(map[string]Value, len(root.Entries))
	for _, e := range root.Entries {
		k := normalizeKey(e.Key)
		if _, seen := byKey[k]; !seen {
			byKey[k] = e.Value
		}
	}

	lookup := func(canonical string, aliases []string) Value {
		if v, ok := byKey[canonical]; ok && v.Kind != KindAbsent {
			return v
		}
		for _, alias := range aliases {
			if v, ok := byKey[alias]; ok && v.Kind != KindAbsent {
				return v
			}
		}
		return Value{}
	}

	var out ResumeRecord
	for _, rk := range recordKeys {
		v := lookup(rk.canonical, rk.aliases)
		switch rk.canonical {
		case "full_name":
			out.FullName = v
		case "email_id":
			out.Email = v
		case "phone":
			out.Phone = v
		case "professional_summary":
			out.ProfessionalSummary = v
		case "github_portfolio":
			out.GitHub = v
		case "linkedin_id":
			out.LinkedIn = v
		case "designation":
			out.Designation = v
		case "certifications":
			out.Certifications = v
		case "skills":
			out.Skills = v
		case "education":
			out.Education = v
		case "work_experience":
			out.WorkExperience = v
		case "projects":
			out.Projects = v
		case "awards":
			out.Awards = v
		case "face_images":
			out.FaceImages = faceImagePaths(v)
		}
	}

	*r = out
	return nil
}

func faceImagePaths(v Value) []string {
	switch v.Kind {
	case KindString:
		if s := strings.TrimSpace(v.Str); s != "" {
			return []string{s}
		}
	case KindList:
		paths := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if s := item.Text(); s != "" {
				paths = append(paths, s)
			}
		}
		return paths
	}
	return nil
}
