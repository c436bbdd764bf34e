package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// If you want a helper for JSON unmarshal:
func JSONUnmarshal(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

// ----------------------------------------------------------------------
// StartupRadar API record types
// ----------------------------------------------------------------------

// DomainRecord is the metadata entry for one registrable domain.
type DomainRecord struct {
	Domain string `json:"domain"`
}

// TextRecord holds the text extracted from a domain's pages.
type TextRecord struct {
	Domain              string `json:"domain,omitempty"`
	HTMLMetaDescription string `json:"html_meta_description"`
}

// LinkRecord is one entry of a link or backlink listing. The referenced
// domain is the target for outbound links and the origin for backlinks.
type LinkRecord struct {
	Domain string `json:"domain"`
}

// SimilarDomain is one entry of the similar-domains listing.
type SimilarDomain struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score,omitempty"`
}

// SocialLinks holds the social media profiles found for a domain.
type SocialLinks struct {
	TwitterURL    string `json:"twitter_url"`
	FacebookURL   string `json:"facebook_url"`
	LinkedinURL   string `json:"linkedin_url"`
	CrunchbaseURL string `json:"crunchbase_url"`
	InstagramURL  string `json:"instagram_url"`
	Email         string `json:"email"`
}

// Source describes where a domain was discovered, e.g. a startup platform.
type Source struct {
	Domain   string `json:"domain"`
	Category string `json:"category"`
}

// WhoisRecord is a domain's whois data. The API sends the date fields as
// strings; they are parsed on decode, with null or empty strings mapping
// to nil rather than an error.
type WhoisRecord struct {
	Domain  string
	Created *time.Time
	Changed *time.Time
	Expires *time.Time
}

func (w *WhoisRecord) UnmarshalJSON(data []byte) error {
	var wire struct {
		Domain  string `json:"domain"`
		Created string `json:"created"`
		Changed string `json:"changed"`
		Expires string `json:"expires"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	created, err := parseWhoisDate(wire.Created)
	if err != nil {
		return err
	}
	changed, err := parseWhoisDate(wire.Changed)
	if err != nil {
		return err
	}
	expires, err := parseWhoisDate(wire.Expires)
	if err != nil {
		return err
	}

	w.Domain = wire.Domain
	w.Created = created
	w.Changed = changed
	w.Expires = expires
	return nil
}

func (w WhoisRecord) MarshalJSON() ([]byte, error) {
	wire := struct {
		Domain  string `json:"domain,omitempty"`
		Created string `json:"created,omitempty"`
		Changed string `json:"changed,omitempty"`
		Expires string `json:"expires,omitempty"`
	}{Domain: w.Domain}
	if w.Created != nil {
		wire.Created = w.Created.Format(time.RFC3339)
	}
	if w.Changed != nil {
		wire.Changed = w.Changed.Format(time.RFC3339)
	}
	if w.Expires != nil {
		wire.Expires = w.Expires.Format(time.RFC3339)
	}
	return json.Marshal(wire)
}

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseWhoisDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparsable whois date %q", s)
}
