// Package intent answers common questions from the phrase catalog when the
// assistant cannot be reached.
package intent

import (
	"strings"

	"elderease/internal/catalog"
	"elderease/internal/model"
)

type rule struct {
	keywords []string
	reply    catalog.Key
}

// Rules are tried in order and the first hit wins. Keywords of both languages are
// always checked, whatever the active locale.
var rules = []rule{
	{keywords: []string{"whatsapp", "व्हाट्सएप"}, reply: catalog.WhatsApp},
	{keywords: []string{"upi", "payment", "पेमेंट", "भुगतान"}, reply: catalog.UPI},
	{keywords: []string{"hang", "slow", "हैंग", "धीमा", "problem", "समस्या"}, reply: catalog.PhoneIssues},
	{keywords: []string{"photo", "फोटो", "picture", "send image"}, reply: catalog.Photo},
	{keywords: []string{"emergency", "आपातकाल", "इमरजेंसी"}, reply: catalog.Emergency},
	{keywords: []string{"clean", "साफ", "clear", "storage"}, reply: catalog.Clean},
}

// Match returns the phrase key answering text.
func Match(text string) catalog.Key {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.reply
			}
		}
	}
	return catalog.DefaultFallback
}

// Reply returns the canned answer to text in locale.
func Reply(text string, locale model.Locale) string {
	return catalog.Text(Match(text), locale)
}
