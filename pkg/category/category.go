// Package category defines the closed set of aggregated list categories.
package category

// Category names one logical list. Each known category maps to exactly
// one artifact file in the output directory.
type Category string

const (
	DropIP          Category = "drop_ip"
	PassIP          Category = "pass_ip"
	WhitelistDomain Category = "whitelist_domain"
	BlacklistDomain Category = "blacklist_domain"
)

var filenames = map[Category]string{
	DropIP:          "drop.txt",
	PassIP:          "pass.txt",
	WhitelistDomain: "whitelist-domain.txt",
	BlacklistDomain: "blacklist-domain.txt",
}

// All returns every known category in a fixed order.
func All() []Category {
	return []Category{DropIP, PassIP, WhitelistDomain, BlacklistDomain}
}

// Parse maps a raw name to a known category.
func Parse(name string) (Category, bool) {
	c := Category(name)
	return c, c.Known()
}

// Known reports whether the category is one of the fixed set.
func (c Category) Known() bool {
	_, ok := filenames[c]
	return ok
}

// Filename returns the artifact file name for a known category.
func (c Category) Filename() string {
	return filenames[c]
}
