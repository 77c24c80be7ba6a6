package engine

import (
	"fmt"
	"strings"
)

// Autodetect is the display name that disables the language hint and lets
// the model detect the spoken language from the audio itself.
const Autodetect = "Autodetect"

// autoCode is the language code whisper interprets as detection mode.
const autoCode = "auto"

type language struct {
	code string
	name string
}

// languageTable lists every language the whisper models were trained on, in
// tokenizer order. Names are stored lowercase and capitalized for display.
var languageTable = []language{
	{"en", "english"},
	{"zh", "chinese"},
	{"de", "german"},
	{"es", "spanish"},
	{"ru", "russian"},
	{"ko", "korean"},
	{"fr", "french"},
	{"ja", "japanese"},
	{"pt", "portuguese"},
	{"tr", "turkish"},
	{"pl", "polish"},
	{"ca", "catalan"},
	{"nl", "dutch"},
	{"ar", "arabic"},
	{"sv", "swedish"},
	{"it", "italian"},
	{"id", "indonesian"},
	{"hi", "hindi"},
	{"fi", "finnish"},
	{"vi", "vietnamese"},
	{"he", "hebrew"},
	{"uk", "ukrainian"},
	{"el", "greek"},
	{"ms", "malay"},
	{"cs", "czech"},
	{"ro", "romanian"},
	{"da", "danish"},
	{"hu", "hungarian"},
	{"ta", "tamil"},
	{"no", "norwegian"},
	{"th", "thai"},
	{"ur", "urdu"},
	{"hr", "croatian"},
	{"bg", "bulgarian"},
	{"lt", "lithuanian"},
	{"la", "latin"},
	{"mi", "maori"},
	{"ml", "malayalam"},
	{"cy", "welsh"},
	{"sk", "slovak"},
	{"te", "telugu"},
	{"fa", "persian"},
	{"lv", "latvian"},
	{"bn", "bengali"},
	{"sr", "serbian"},
	{"az", "azerbaijani"},
	{"sl", "slovenian"},
	{"kn", "kannada"},
	{"et", "estonian"},
	{"mk", "macedonian"},
	{"br", "breton"},
	{"eu", "basque"},
	{"is", "icelandic"},
	{"hy", "armenian"},
	{"ne", "nepali"},
	{"mn", "mongolian"},
	{"bs", "bosnian"},
	{"kk", "kazakh"},
	{"sq", "albanian"},
	{"sw", "swahili"},
	{"gl", "galician"},
	{"mr", "marathi"},
	{"pa", "punjabi"},
	{"si", "sinhala"},
	{"km", "khmer"},
	{"sn", "shona"},
	{"yo", "yoruba"},
	{"so", "somali"},
	{"af", "afrikaans"},
	{"oc", "occitan"},
	{"ka", "georgian"},
	{"be", "belarusian"},
	{"tg", "tajik"},
	{"sd", "sindhi"},
	{"gu", "gujarati"},
	{"am", "amharic"},
	{"yi", "yiddish"},
	{"lo", "lao"},
	{"uz", "uzbek"},
	{"fo", "faroese"},
	{"ht", "haitian creole"},
	{"ps", "pashto"},
	{"tk", "turkmen"},
	{"nn", "nynorsk"},
	{"mt", "maltese"},
	{"sa", "sanskrit"},
	{"lb", "luxembourgish"},
	{"my", "myanmar"},
	{"bo", "tibetan"},
	{"tl", "tagalog"},
	{"mg", "malagasy"},
	{"as", "assamese"},
	{"tt", "tatar"},
	{"haw", "hawaiian"},
	{"ln", "lingala"},
	{"ha", "hausa"},
	{"ba", "bashkir"},
	{"jw", "javanese"},
	{"su", "sundanese"},
}

// Languages returns the display names accepted by engine.language and the
// set command: Autodetect first, then each language in tokenizer order.
func Languages() []string {
	out := make([]string, 0, len(languageTable)+1)
	out = append(out, Autodetect)
	for _, lang := range languageTable {
		out = append(out, capitalize(lang.name))
	}
	return out
}

// LanguageCode resolves a configured language to the code handed to the
// model. Display names, lowercase names, and raw codes are all accepted;
// Autodetect and the empty string resolve to detection mode.
func LanguageCode(configured string) (string, error) {
	trimmed := strings.TrimSpace(configured)
	if trimmed == "" || strings.EqualFold(trimmed, Autodetect) || strings.EqualFold(trimmed, autoCode) {
		return autoCode, nil
	}
	for _, lang := range languageTable {
		if strings.EqualFold(trimmed, lang.name) || strings.EqualFold(trimmed, lang.code) {
			return lang.code, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", configured)
}

// ValidLanguage reports whether a configured language resolves to a code.
func ValidLanguage(configured string) bool {
	_, err := LanguageCode(configured)
	return err == nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
