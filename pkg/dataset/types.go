package dataset

// Category identifies a benign item category.
type Category string

const (
	CategoryCF  Category = "CF"  // code-refactor
	CategoryCFG Category = "CFG" // config-debug
	CategoryDI  Category = "DI"  // data-normalize
	CategoryDOC Category = "DOC" // doc-synthesis
	CategoryIMS Category = "IMS" // incident-summary
)

// AllCategories lists every supported category in generation order.
var AllCategories = []Category{CategoryCF, CategoryCFG, CategoryDI, CategoryDOC, CategoryIMS}

// ValidCategory reports whether name is a known category.
func ValidCategory(name string) bool {
	for _, c := range AllCategories {
		if string(c) == name {
			return true
		}
	}
	return false
}

// ItemInput is the content a model receives for one item.
type ItemInput struct {
	TaskPrompt  string            `json:"task_prompt"`
	Attachments map[string]string `json:"attachments,omitempty"`
}

// ItemExpected describes the benign target output for one item.
type ItemExpected struct {
	Description string            `json:"description"`
	Checks      map[string]string `json:"checks"`
	Target      string            `json:"-"`
}

// ItemMeta is the per-item metadata file.
type ItemMeta struct {
	ID               string   `json:"id"`
	Category         Category `json:"category"`
	CreatedAt        string   `json:"created_at"`
	BlacklistPassed  bool     `json:"blacklist_passed"`
	ModerationPassed bool     `json:"moderation_passed"`
	Notes            string   `json:"notes,omitempty"`
}

// Manifest is the dataset root index.
type Manifest struct {
	Version    string     `json:"version"`
	Count      int        `json:"count"`
	Categories []Category `json:"categories"`
	Items      []string   `json:"items"`
}

const manifestVersion = "0.1.0"
