// Package i18n supplies every user-visible label through a message catalog
// keyed by fixed identifiers. The active language is never global: callers
// hold a Localizer value and pass it to whatever renders text.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Language is a catalog language tag.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"

	DefaultLanguage = English
)

// Key identifies one message.
type Key string

const (
	AppTitle             Key = "appTitle"
	RPCLabel             Key = "rpcLabel"
	HashLabel            Key = "hashLabel"
	AnalyzeButton        Key = "analyzeButton"
	Loading              Key = "loading"
	TxInfoTitle          Key = "txInfoTitle"
	TraceTitle           Key = "traceTitle"
	ETHTransfer          Key = "ethTransfer"
	Amount               Key = "amount"
	FunctionLabel        Key = "functionLabel"
	UnrecognizedFunction Key = "unrecognizedFunction"
	CallData             Key = "callData"
	CantParseFunction    Key = "cantParseFunction"
	CantShowFunction     Key = "cantShowFunction"
	InputData            Key = "inputData"
	OutputData           Key = "outputData"
	CreateContract       Key = "createContract"
	RPCURLEmpty          Key = "rpcUrlEmpty"
	TxHashEmpty          Key = "txHashEmpty"
	BothEmpty            Key = "bothEmpty"
	CantGetTraceData     Key = "cantGetTraceData"
	CantGetTxInfo        Key = "cantGetTxInfo"
	TraceAPIError        Key = "traceApiError"
	TxAPIError           Key = "txApiError"
	ProcessingError      Key = "processingError"
	RPCPlaceholder       Key = "rpcPlaceholder"
	HashPlaceholder      Key = "hashPlaceholder"
	LanguageLabel        Key = "languageLabel"
	From                 Key = "from"
	To                   Key = "to"
	Value                Key = "value"
	Gas                  Key = "gas"
	GasPrice             Key = "gasPrice"
	Nonce                Key = "nonce"
	Block                Key = "block"
	Pending              Key = "pending"
	CallError            Key = "callError"
	RevertReason         Key = "revertReason"
)

// Catalog holds the message tables for every supported language.
type Catalog struct {
	messages map[Language]map[Key]string
}

// Load parses the embedded locale files.
func Load() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	c := &Catalog{messages: make(map[Language]map[Key]string, len(entries))}
	for _, e := range entries {
		name := e.Name()
		data, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}

		table := make(map[Key]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}

		c.messages[Language(strings.TrimSuffix(name, path.Ext(name)))] = table
	}

	if _, ok := c.messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q missing from locales", DefaultLanguage)
	}

	return c, nil
}

// MustLoad is Load for package-level initialisation and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Languages returns the supported language tags, sorted.
func (c *Catalog) Languages() []Language {
	langs := make([]Language, 0, len(c.messages))
	for l := range c.messages {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Supports reports whether lang has a message table.
func (c *Catalog) Supports(lang Language) bool {
	_, ok := c.messages[lang]
	return ok
}

// Localizer returns a Localizer for lang. Unknown languages fall back to
// DefaultLanguage.
func (c *Catalog) Localizer(lang Language) Localizer {
	if !c.Supports(lang) {
		lang = DefaultLanguage
	}
	return Localizer{catalog: c, lang: lang}
}

// Localizer resolves keys in one language.
type Localizer struct {
	catalog *Catalog
	lang    Language
}

func (l Localizer) Language() Language { return l.lang }

// T returns the message for key, falling back to the default language and
// finally to the key itself.
func (l Localizer) T(key Key) string {
	if l.catalog == nil {
		return string(key)
	}
	if msg, ok := l.catalog.messages[l.lang][key]; ok {
		return msg
	}
	if msg, ok := l.catalog.messages[DefaultLanguage][key]; ok {
		return msg
	}
	return string(key)
}

// With joins the message for key with a detail, as in "Error processing
// results: unexpected EOF". An empty detail yields just the message.
func (l Localizer) With(key Key, detail string) string {
	if detail == "" {
		return l.T(key)
	}
	return l.T(key) + ": " + detail
}
