package domain

import (
	"regexp"
	"strings"
)

// Website trust analysis: pure extraction and scoring over fetched page
// text. The collectors hand in raw content; everything here is deterministic.

// SSLInfo describes the outcome of the certificate probe for a site.
type SSLInfo struct {
	Status           string `json:"status"`
	HTTPSEnabled     bool   `json:"https_enabled"`
	CertificateValid bool   `json:"certificate_valid"`
	Error            string `json:"error,omitempty"`
}

// ContactInfo holds contact details extracted from page content.
type ContactInfo struct {
	Phone          string   `json:"phone,omitempty"`
	Address        string   `json:"address,omitempty"`
	Email          string   `json:"email,omitempty"`
	PhonesFound    []string `json:"phones_found"`
	AddressesFound []string `json:"addresses_found"`
	EmailsFound    []string `json:"emails_found"`
}

// SectionHit records whether a page section was detected and which
// keywords triggered the detection.
type SectionHit struct {
	Found         bool     `json:"found"`
	KeywordsFound []string `json:"keywords_found,omitempty"`
}

// PageSections lists the trust-relevant sections detected on a site.
type PageSections struct {
	AboutUs        SectionHit `json:"about_us"`
	PrivacyPolicy  SectionHit `json:"privacy_policy"`
	Support        SectionHit `json:"support"`
	Terms          SectionHit `json:"terms"`
	SocialMedia    SectionHit `json:"social_media"`
	SocialPlatform []string   `json:"social_platforms,omitempty"`
}

var (
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:\+91|91)?[\s-]?[6-9]\d{9}`),
		regexp.MustCompile(`\+\d{1,3}[\s-]?\d{6,14}`),
		regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`),
	}
	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:address|registered\s+office|head\s+office|contact\s+us|location|office)[:\s]+([^\n]{20,300})`),
		regexp.MustCompile(`(?im)(?:find\s+us|visit\s+us|our\s+office)[:\s]+([^\n]{20,200})`),
	}
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	nonPhoneRunes   = regexp.MustCompile(`[^\d+]`)
	phoneDigitsOnly = regexp.MustCompile(`[^\d]`)
)

// ExtractContactInfo pulls phone numbers, addresses and emails out of page
// content. Best effort: regex hits only, first match wins for the primary
// fields.
func ExtractContactInfo(content string) ContactInfo {
	info := ContactInfo{
		PhonesFound:    []string{},
		AddressesFound: []string{},
		EmailsFound:    []string{},
	}
	if content == "" {
		return info
	}

	seen := map[string]bool{}
	for _, pattern := range phonePatterns {
		for _, match := range pattern.FindAllString(content, -1) {
			cleaned := nonPhoneRunes.ReplaceAllString(strings.TrimSpace(match), "")
			if len(phoneDigitsOnly.ReplaceAllString(cleaned, "")) < 10 {
				continue
			}
			if !seen[cleaned] {
				seen[cleaned] = true
				info.PhonesFound = append(info.PhonesFound, cleaned)
			}
		}
	}
	if len(info.PhonesFound) > 3 {
		info.PhonesFound = info.PhonesFound[:3]
	}

	seenAddr := map[string]bool{}
	for _, pattern := range addressPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			addr := strings.TrimSpace(match[1])
			if len(addr) <= 15 {
				continue
			}
			if len(addr) > 200 {
				addr = addr[:200]
			}
			if !seenAddr[addr] {
				seenAddr[addr] = true
				info.AddressesFound = append(info.AddressesFound, addr)
			}
		}
	}
	if len(info.AddressesFound) > 2 {
		info.AddressesFound = info.AddressesFound[:2]
	}

	seenMail := map[string]bool{}
	for _, match := range emailPattern.FindAllString(content, -1) {
		email := strings.ToLower(strings.TrimSpace(match))
		if !seenMail[email] {
			seenMail[email] = true
			info.EmailsFound = append(info.EmailsFound, email)
		}
	}
	if len(info.EmailsFound) > 3 {
		info.EmailsFound = info.EmailsFound[:3]
	}

	if len(info.PhonesFound) > 0 {
		info.Phone = info.PhonesFound[0]
	}
	if len(info.AddressesFound) > 0 {
		info.Address = info.AddressesFound[0]
	}
	if len(info.EmailsFound) > 0 {
		info.Email = info.EmailsFound[0]
	}
	return info
}

var (
	aboutKeywords = []string{
		"about us", "our story", "who we are", "founder", "brand story",
		"our mission", "our vision", "established", "founded", "leadership",
		"our journey", "what we do", "company profile", "brand profile",
	}
	privacyKeywords = []string{
		"privacy policy", "data protection", "cookie policy", "data privacy",
		"personal information", "privacy notice", "privacy statement", "gdpr",
	}
	supportKeywords = []string{
		"customer service", "help center", "support center", "customer care",
		"customer support", "help desk", "live chat", "get help", "need help",
		"faq", "contact us",
	}
	termsKeywords = []string{
		"terms and conditions", "terms of service", "terms of use",
		"disclaimer", "user agreement",
	}
	socialPatterns = map[string]*regexp.Regexp{
		"instagram": regexp.MustCompile(`(?i)instagram\.com/[\w.]+`),
		"twitter":   regexp.MustCompile(`(?i)(?:twitter|x)\.com/[\w.]+`),
		"facebook":  regexp.MustCompile(`(?i)(?:facebook|fb)\.com/[\w.]+`),
		"linkedin":  regexp.MustCompile(`(?i)linkedin\.com/[\w./]+`),
		"youtube":   regexp.MustCompile(`(?i)(?:youtube\.com/[\w./]+|youtu\.be/[\w.]+)`),
	}
)

func matchKeywords(lower string, keywords []string) SectionHit {
	hit := SectionHit{}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hit.Found = true
			hit.KeywordsFound = append(hit.KeywordsFound, kw)
		}
	}
	return hit
}

// DetectPageSections scans page content for trust-relevant sections.
func DetectPageSections(content string) PageSections {
	sections := PageSections{}
	if content == "" {
		return sections
	}
	lower := strings.ToLower(content)

	sections.AboutUs = matchKeywords(lower, aboutKeywords)
	sections.PrivacyPolicy = matchKeywords(lower, privacyKeywords)
	sections.Support = matchKeywords(lower, supportKeywords)
	sections.Terms = matchKeywords(lower, termsKeywords)

	for platform, pattern := range socialPatterns {
		if pattern.MatchString(content) {
			sections.SocialPlatform = append(sections.SocialPlatform, platform)
		}
	}
	sections.SocialMedia.Found = len(sections.SocialPlatform) > 0
	return sections
}

// SSLTrustPoints scores the certificate probe on the 0-100 point scale:
// a valid certificate is worth 25 points, an attempted-but-broken HTTPS
// setup 10.
func SSLTrustPoints(ssl SSLInfo) int {
	if ssl.CertificateValid {
		return 25
	}
	if ssl.HTTPSEnabled {
		return 10
	}
	return 0
}

// ContentTrustPoints scores the non-SSL trust indicators: contact details
// (35), page sections (30) and a content-volume bonus (10).
func ContentTrustPoints(contact ContactInfo, sections PageSections, contentLength int) int {
	points := 0
	if contact.Phone != "" {
		points += 15
	}
	if contact.Address != "" {
		points += 15
	}
	if contact.Email != "" {
		points += 5
	}
	if sections.AboutUs.Found {
		points += 12
	}
	if sections.PrivacyPolicy.Found {
		points += 8
	}
	if sections.Terms.Found {
		points += 5
	}
	if sections.Support.Found {
		points += 3
	}
	if sections.SocialMedia.Found {
		points += 2
	}
	switch {
	case contentLength > 5000:
		points += 10
	case contentLength > 2000:
		points += 5
	case contentLength > 500:
		points += 2
	}
	return points
}

// WebsiteStatus buckets a 0-100 trust-point total into its tier.
func WebsiteStatus(points int) string {
	switch {
	case points >= 80:
		return "Excellent"
	case points >= 60:
		return "Good"
	case points >= 40:
		return "Partial"
	default:
		return "Failed"
	}
}
