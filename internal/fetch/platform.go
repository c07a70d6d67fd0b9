package fetch

import (
	"net/url"
	"strings"
)

// Platform names the applicant tracking system hosting a posting.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// Selectors tell ExtractText where the description lives on a page and what to strip first.
// Content selectors are tried in order; the first match wins.
type Selectors struct {
	Content []string
	Noise   []string
}

type board struct {
	platform Platform
	domains  []string
	content  []string
	noise    []string
}

var boards = []board{
	{
		platform: PlatformGreenhouse,
		domains:  []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		domains:  []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		domains:  []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".gwt-HTML", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		domains:  []string{"ashbyhq.com"},
		content:  []string{".ashby-job-posting-description", "[class*='descriptionText']", "main"},
	},
}

// genericContent is tried on pages of unknown boards.
var genericContent = []string{
	".job-description", ".job-content", "#job-description", "#job-content",
	".posting-content", ".job-details", "[data-testid='job-description']",
	"main", "article", ".content", "#content",
}

// commonNoise is stripped from every posting: apply forms, EEO notices, share widgets
// and consent banners.
var commonNoise = []string{
	"form", "#application-form", ".application-form", ".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure", ".eeo-statement", ".eeo-section", ".legal-disclosure", ".self-identification",
	".social-share", ".share-buttons",
	".cookie-consent", ".gdpr-notice",
}

// DetectPlatform matches the host of rawURL against the known boards.
func DetectPlatform(rawURL string) Platform {
	if b := boardFor(rawURL); b != nil {
		return b.platform
	}
	return PlatformUnknown
}

// Selectors returns the extraction selectors for pages of p.
func (p Platform) Selectors() Selectors {
	for i := range boards {
		if boards[i].platform == p {
			return Selectors{
				Content: boards[i].content,
				Noise:   append(append([]string(nil), commonNoise...), boards[i].noise...),
			}
		}
	}
	return GenericSelectors()
}

// GenericSelectors returns the selectors used when the board is not recognized.
func GenericSelectors() Selectors {
	return Selectors{Content: genericContent, Noise: commonNoise}
}

func boardFor(rawURL string) *board {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for i := range boards {
		for _, d := range boards[i].domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return &boards[i]
			}
		}
	}
	return nil
}
