package engagement

// Page is a static content page served as metadata
type Page struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var pages = map[string]Page{
	"about": {
		Slug:        "about",
		Title:       "About Us",
		Description: "Our story, our farms and the people behind every jar.",
	},
	"benefits": {
		Slug:        "benefits",
		Title:       "Benefits",
		Description: "Why traditionally made A2 ghee and farm produce are good for you.",
	},
	"privacy": {
		Slug:        "privacy",
		Title:       "Privacy Policy",
		Description: "How we collect, use and protect your personal information.",
	},
}

// FindPage returns the static page with the given slug
func FindPage(slug string) (Page, bool) {
	page, ok := pages[slug]
	return page, ok
}

// PageSlugs lists the available static pages
func PageSlugs() []string {
	return []string{"about", "benefits", "privacy"}
}
