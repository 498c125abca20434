package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type IssueLevel string

const (
	LevelError   IssueLevel = "error"
	LevelWarning IssueLevel = "warning"
)

// Issue points at one offending field so a UI can highlight it.
type Issue struct {
	Path    string     `json:"path"`
	Message string     `json:"message"`
	Level   IssueLevel `json:"level"`
}

var semverRe = regexp.MustCompile(`^\d+\.\d+\.\d+(-.+)?$`)

// ValidateJSON decodes raw template JSON and validates it. Decode failures
// become a root-level error issue rather than a Go error; the validator never
// throws for malformed content.
func ValidateJSON(data []byte, appVersion string) []Issue {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []Issue{{Path: "", Message: fmt.Sprintf("template is not valid JSON: %v", err), Level: LevelError}}
	}
	return Validate(doc, appVersion)
}

// Validate checks a decoded template document structurally and semantically.
// It works on raw JSON values on purpose: a half-broken document must produce
// pinpointed issues, not a decode failure. Import is blocked only by
// error-level issues; warnings are advisory.
func Validate(doc map[string]any, appVersion string) []Issue {
	if doc == nil {
		return []Issue{{Path: "", Message: "template document is missing", Level: LevelError}}
	}

	var issues []Issue

	if raw, ok := doc["schemaVersion"]; !ok {
		issues = append(issues, Issue{Path: "schemaVersion", Message: "schemaVersion missing, assuming version 1", Level: LevelWarning})
	} else if v, ok := raw.(float64); !ok || v < 1 {
		issues = append(issues, Issue{Path: "schemaVersion", Message: "schemaVersion must be a number >= 1", Level: LevelError})
	} else if int(v) > SupportedSchemaVersion {
		issues = append(issues, Issue{
			Path:    "schemaVersion",
			Message: fmt.Sprintf("template uses schema version %d but this app supports up to %d; a newer app version is required", int(v), SupportedSchemaVersion),
			Level:   LevelError,
		})
	}

	meta, ok := doc["meta"].(map[string]any)
	if !ok {
		// Without meta nothing downstream is trustworthy; stop here.
		issues = append(issues, Issue{Path: "meta", Message: "meta is required", Level: LevelError})
		return issues
	}

	if s, ok := meta["id"].(string); !ok || s == "" {
		issues = append(issues, Issue{Path: "meta.id", Message: "meta.id must be a non-empty string", Level: LevelError})
	}
	if s, ok := meta["name"].(string); !ok || s == "" {
		issues = append(issues, Issue{Path: "meta.name", Message: "meta.name must be a non-empty string", Level: LevelError})
	}
	if s, ok := meta["version"].(string); !ok || s == "" {
		issues = append(issues, Issue{Path: "meta.version", Message: "meta.version must be a string", Level: LevelError})
	} else if !semverRe.MatchString(s) {
		issues = append(issues, Issue{Path: "meta.version", Message: fmt.Sprintf("meta.version %q is not a semantic version", s), Level: LevelWarning})
	}
	if s, ok := meta["minAppVersion"].(string); ok && s != "" {
		if compareVersions(s, appVersion) > 0 {
			issues = append(issues, Issue{
				Path:    "meta.minAppVersion",
				Message: fmt.Sprintf("template requires app version %s or newer, current version is %s", s, appVersion),
				Level:   LevelError,
			})
		}
	}

	issues = append(issues, validatePage(doc["page"])...)
	issues = append(issues, validateElements(doc["elements"])...)

	return issues
}

func validatePage(raw any) []Issue {
	page, ok := raw.(map[string]any)
	if !ok {
		return []Issue{{Path: "page", Message: "page is required", Level: LevelError}}
	}

	var issues []Issue
	if s, ok := page["size"].(string); !ok {
		issues = append(issues, Issue{Path: "page.size", Message: "page.size is required", Level: LevelError})
	} else if _, _, known := PageSize(s).Dimensions(); !known {
		issues = append(issues, Issue{Path: "page.size", Message: fmt.Sprintf("unsupported page size %q", s), Level: LevelError})
	}

	margin, ok := page["margin"].(map[string]any)
	if !ok {
		issues = append(issues, Issue{Path: "page.margin", Message: "page.margin is required", Level: LevelError})
		return issues
	}
	for _, side := range []string{"top", "right", "bottom", "left"} {
		if v, ok := margin[side].(float64); !ok || v < 0 {
			issues = append(issues, Issue{
				Path:    "page.margin." + side,
				Message: fmt.Sprintf("page.margin.%s must be a non-negative number", side),
				Level:   LevelError,
			})
		}
	}
	return issues
}

func validateElements(raw any) []Issue {
	elements, ok := raw.([]any)
	if !ok {
		return []Issue{{Path: "elements", Message: "elements must be an array", Level: LevelError}}
	}

	var issues []Issue
	for i, rawEl := range elements {
		issues = append(issues, validateElement(i, rawEl)...)
	}
	return issues
}

func validateElement(i int, raw any) []Issue {
	path := fmt.Sprintf("elements[%d]", i)
	el, ok := raw.(map[string]any)
	if !ok {
		return []Issue{{Path: path, Message: "element must be an object", Level: LevelError}}
	}

	var issues []Issue
	if s, ok := el["id"].(string); !ok || s == "" {
		issues = append(issues, Issue{Path: path + ".id", Message: "element id must be a non-empty string", Level: LevelError})
	}

	kind, _ := el["type"].(string)
	if !knownKind(ElementKind(kind)) {
		issues = append(issues, Issue{Path: path + ".type", Message: fmt.Sprintf("unknown element type %q", kind), Level: LevelError})
	}

	for _, f := range []string{"x", "y", "width", "height"} {
		if v, ok := el[f].(float64); !ok || v < 0 {
			issues = append(issues, Issue{
				Path:    fmt.Sprintf("%s.%s", path, f),
				Message: fmt.Sprintf("%s must be a non-negative number", f),
				Level:   LevelError,
			})
		}
	}
	// Sanity heuristic, tuned for A4. Pages can overflow so this stays a warning.
	if v, ok := el["x"].(float64); ok && v > 1000 {
		issues = append(issues, Issue{Path: path + ".x", Message: "x is unreasonably large for the page", Level: LevelWarning})
	}
	if v, ok := el["y"].(float64); ok && v > 1500 {
		issues = append(issues, Issue{Path: path + ".y", Message: "y is unreasonably large for the page", Level: LevelWarning})
	}

	switch ElementKind(kind) {
	case KindImage:
		issues = append(issues, validateImageSrc(path, el)...)
	case KindTable:
		issues = append(issues, validateTableColumns(path, el)...)
	}
	return issues
}

func validateImageSrc(path string, el map[string]any) []Issue {
	src, _ := el["src"].(string)
	// Data URLs and remote URLs are resolved as-is by the renderer.
	if strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return nil
	}
	if strings.HasPrefix(src, "/") || windowsAbsRe.MatchString(src) {
		return []Issue{{Path: path + ".src", Message: "image src must be a relative path, not an absolute one", Level: LevelError}}
	}
	if !strings.HasPrefix(src, "assets/") {
		return []Issue{{Path: path + ".src", Message: "image src should live under the template's assets/ directory", Level: LevelWarning}}
	}
	return nil
}

var windowsAbsRe = regexp.MustCompile(`^[a-zA-Z]:[\\/]`)

func validateTableColumns(path string, el map[string]any) []Issue {
	columns, ok := el["columns"].([]any)
	if !ok {
		return []Issue{{Path: path + ".columns", Message: "table columns must be an array", Level: LevelError}}
	}
	var issues []Issue
	for j, rawCol := range columns {
		colPath := fmt.Sprintf("%s.columns[%d]", path, j)
		col, ok := rawCol.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Path: colPath, Message: "column must be an object", Level: LevelError})
			continue
		}
		if s, ok := col["header"].(string); !ok || s == "" {
			issues = append(issues, Issue{Path: colPath + ".header", Message: "column header must be a non-empty string", Level: LevelError})
		}
		if s, ok := col["field"].(string); !ok || s == "" {
			issues = append(issues, Issue{Path: colPath + ".field", Message: "column field must be a non-empty string", Level: LevelError})
		}
	}
	return issues
}

func knownKind(k ElementKind) bool {
	for _, known := range KnownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// HasErrors reports whether any issue is error-level.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Level == LevelError {
			return true
		}
	}
	return false
}

// ErrorMessage concatenates every error-level issue into one user-facing
// message, "path: message; path: message".
func ErrorMessage(issues []Issue) string {
	var parts []string
	for _, is := range issues {
		if is.Level != LevelError {
			continue
		}
		if is.Path == "" {
			parts = append(parts, is.Message)
		} else {
			parts = append(parts, is.Path+": "+is.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// Warnings returns the warning-level issues as display strings.
func Warnings(issues []Issue) []string {
	var out []string
	for _, is := range issues {
		if is.Level != LevelWarning {
			continue
		}
		if is.Path == "" {
			out = append(out, is.Message)
		} else {
			out = append(out, is.Path+": "+is.Message)
		}
	}
	return out
}

// compareVersions compares two version strings component-wise, treating
// missing components as zero. Pre-release suffixes are ignored.
func compareVersions(a, b string) int {
	pa := versionComponents(a)
	pb := versionComponents(b)
	for i := 0; i < 3; i++ {
		if pa[i] != pb[i] {
			if pa[i] > pb[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func versionComponents(v string) [3]int {
	if idx := strings.IndexByte(v, '-'); idx >= 0 {
		v = v[:idx]
	}
	var out [3]int
	for i, part := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil {
			out[i] = n
		}
	}
	return out
}
