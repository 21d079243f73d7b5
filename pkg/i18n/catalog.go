package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Catalog is a Translator backed by an x/text message catalog. Locales are
// matched with language.Matcher so "es-MX" finds "es" messages. Populate it
// with Set before sharing; Translate is safe for concurrent use afterwards.
type Catalog struct {
	builder  *catalog.Builder
	fallback language.Tag
	messages map[language.Tag]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

var _ Translator = (*Catalog)(nil)

// NewCatalog creates an empty catalog. fallback is used when the requested
// locale is empty, unparsable, or has no messages.
func NewCatalog(fallback string) (*Catalog, error) {
	tag := language.English
	if strings.TrimSpace(fallback) != "" {
		parsed, err := language.Parse(fallback)
		if err != nil {
			return nil, fmt.Errorf("i18n: fallback locale %q: %w", fallback, err)
		}
		tag = parsed
	}
	return &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(tag)),
		fallback: tag,
		messages: make(map[language.Tag]map[string]string),
	}, nil
}

// Set registers msg for key in locale.
func (c *Catalog) Set(locale, key, msg string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("i18n: locale %q: %w", locale, err)
	}
	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("i18n: set %s/%s: %w", locale, key, err)
	}
	if _, ok := c.messages[tag]; !ok {
		c.messages[tag] = make(map[string]string)
		c.tags = append(c.tags, tag)
		c.matcher = language.NewMatcher(c.tags)
	}
	c.messages[tag][key] = msg
	return nil
}

// Locales lists the locales holding at least one message.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag.String())
	}
	sort.Strings(out)
	return out
}

// Translate returns the message for key, trying the best matching locale and
// then the fallback. Messages are formatted only when args are given.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, tag := range c.candidates(locale) {
		msg, ok := c.messages[tag][key]
		if !ok {
			continue
		}
		if len(args) == 0 {
			return msg, nil
		}
		printer := message.NewPrinter(tag, message.Catalog(c.builder))
		return printer.Sprintf(key, args...), nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

func (c *Catalog) candidates(locale string) []language.Tag {
	var out []language.Tag
	if c.matcher != nil && strings.TrimSpace(locale) != "" {
		if requested, err := language.Parse(locale); err == nil {
			if _, idx, conf := c.matcher.Match(requested); conf != language.No {
				out = append(out, c.tags[idx])
			}
		}
	}
	if len(out) == 0 || out[0] != c.fallback {
		out = append(out, c.fallback)
	}
	return out
}

// LoadCatalogFS reads every `<locale>.json|yaml|yml` file in fsys as a flat
// key → message map.
func LoadCatalogFS(fsys fs.FS, fallback string) (*Catalog, error) {
	c, err := NewCatalog(fallback)
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		return c, nil
	}

	err = fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(path.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", name, err)
		}
		messages := map[string]string{}
		if err := json.Unmarshal(data, &messages); err != nil {
			if yerr := yaml.Unmarshal(data, &messages); yerr != nil {
				return fmt.Errorf("i18n: parse %s: invalid JSON or YAML", name)
			}
		}

		locale := strings.TrimSuffix(path.Base(name), path.Ext(name))
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := c.Set(locale, key, messages[key]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
