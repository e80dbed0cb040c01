package flowdoc

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// FileType describes a kind of project file and its extension.
type FileType struct {
	Name      string
	Title     string
	Extension string
}

// FileTypes are the kinds of files a project can hold. The first entry is the default.
var FileTypes = []FileType{
	{Name: "INTEGRATION", Title: "Integration", Extension: "camel.yaml"},
	{Name: "OPENAPI_JSON", Title: "OpenAPI JSON", Extension: "json"},
	{Name: "OPENAPI_YAML", Title: "OpenAPI YAML", Extension: "yaml"},
	{Name: "CODE", Title: "Code", Extension: "java"},
	{Name: "PROPERTIES", Title: "Properties", Extension: "properties"},
}

// LookupFileType returns the FileType with the given name.
func LookupFileType(name string) (FileType, bool) {
	for _, ft := range FileTypes {
		if strings.EqualFold(ft.Name, name) {
			return ft, true
		}
	}
	return FileType{}, false
}

// DetectFileType returns the FileType of a file name by its extension.
// Integrations also accept the short camel.yml form.
func DetectFileType(name string) (FileType, bool) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".camel.yml") {
		return FileTypes[0], true
	}
	for _, ft := range FileTypes {
		if strings.HasSuffix(lower, "."+ft.Extension) {
			return ft, true
		}
	}
	return FileType{}, false
}

// IsIntegration reports whether name is an integration file.
func IsIntegration(name string) bool {
	ft, ok := DetectFileType(name)
	return ok && ft.Name == "INTEGRATION"
}

var nonFileChars = regexp.MustCompile(`[^0-9a-zA-Z.]+`)

// FileName turns a user-entered title into a file name stem.
func FileName(title string) string {
	return strings.ToLower(nonFileChars.ReplaceAllString(title, "-"))
}

// JavaName turns a title into an upper camel case class name.
func JavaName(title string) string {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// NewFile returns the full file name and initial content for a new project
// file. Only integrations get a body; other types start empty.
func NewFile(title string, ft FileType) (name string, code []byte) {
	stem := FileName(title)
	if ft.Name == "CODE" {
		stem = JavaName(title)
	}
	name = stem + "." + ft.Extension
	if ft.Name == "INTEGRATION" {
		code = NewIntegration(title)
	}
	return name, code
}

// NewIntegration returns the YAML body of an empty integration.
func NewIntegration(title string) []byte {
	return []byte(fmt.Sprintf("# %s\n[]\n", strings.TrimSpace(title)))
}
