package domain

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultAllowedExtensions - расширения изображений, разрешенные по умолчанию.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg"}

// ImageUpload - загруженный пользователем файл изображения.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImagePolicy решает, принимается ли файл, по его расширению.
type ImagePolicy struct {
	allowed map[string]struct{}
}

func NewImagePolicy(extensions []string) *ImagePolicy {
	if len(extensions) == 0 {
		extensions = DefaultAllowedExtensions
	}
	p := &ImagePolicy{allowed: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			p.allowed[ext] = struct{}{}
		}
	}
	return p
}

// Accepts сравнивает расширение без учета регистра. Файл без точки не принимается.
func (p *ImagePolicy) Accepts(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return false
	}
	_, ok := p.allowed[strings.ToLower(filename[i+1:])]
	return ok
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	windowsDeviceNames  = map[string]struct{}{
		"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
		"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
		"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
	}
)

// SecureFilename превращает имя файла от клиента в безопасное имя для хранилища:
// приводит к ASCII (NFKD, диакритика отбрасывается), убирает разделители каталогов
// и небезопасные символы. Может вернуть пустую строку.
func SecureFilename(name string) string {
	folding := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(folding, name)
	if err != nil {
		return ""
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if ascii == "" {
		return ""
	}
	base := strings.ToUpper(strings.SplitN(ascii, ".", 2)[0])
	if _, reserved := windowsDeviceNames[base]; reserved {
		ascii = "_" + ascii
	}
	return ascii
}
