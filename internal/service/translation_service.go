package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const DefaultLanguage = "pt"

// TranslationService holds language code -> nested message map. It is read-only
// after construction.
type TranslationService struct {
	translations map[string]map[string]interface{}
}

// LoadTranslations reads the dictionary file. Errors are logged and leave the
// service empty so pages keep being served.
func LoadTranslations(path string, logger *zap.Logger) *TranslationService {
	s := &TranslationService{translations: map[string]map[string]interface{}{}}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("error loading translations", zap.String("path", path), zap.Error(err))
		return s
	}

	parsed, err := parseTranslations(data)
	if err != nil {
		logger.Error("error loading translations", zap.String("path", path), zap.Error(err))
		return s
	}

	s.translations = parsed
	return s
}

func NewTranslationService(translations map[string]map[string]interface{}) *TranslationService {
	if translations == nil {
		translations = map[string]map[string]interface{}{}
	}
	return &TranslationService{translations: translations}
}

func parseTranslations(data []byte) (map[string]map[string]interface{}, error) {
	var out map[string]map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("malformed translations file: %w", err)
	}
	if out == nil {
		out = map[string]map[string]interface{}{}
	}
	return out, nil
}

func (s *TranslationService) All() map[string]map[string]interface{} {
	return s.translations
}

// ForLanguage returns lang's messages, the default language's, or an empty map.
func (s *TranslationService) ForLanguage(lang string) map[string]interface{} {
	if lang == "" {
		lang = DefaultLanguage
	}
	if m, ok := s.translations[lang]; ok && m != nil {
		return m
	}
	if m, ok := s.translations[DefaultLanguage]; ok && m != nil {
		return m
	}
	return map[string]interface{}{}
}

// Translate resolves a dotted key such as "nav.about" in lang. Unknown keys
// come back unchanged.
func (s *TranslationService) Translate(lang, key string) string {
	var node interface{} = s.translations[lang]
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return key
		}
		node = m[part]
	}

	if str, ok := node.(string); ok && str != "" {
		return str
	}
	return key
}

func (s *TranslationService) Languages() []string {
	langs := make([]string, 0, len(s.translations))
	for lang := range s.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
