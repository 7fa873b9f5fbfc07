package model

// Section groups products in the storefront. Any non-empty value is
// accepted; the constants are the sections the storefront ships with.
type Section string

const (
	SectionComputers   Section = "computadores"
	SectionAccessories Section = "acessorios"
	SectionPrinters    Section = "impressoras"
	SectionGames       Section = "games"
	SectionGadgets     Section = "gadgets"
)

// Sections lists the sections the storefront ships with.
var Sections = []Section{
	SectionComputers,
	SectionAccessories,
	SectionPrinters,
	SectionGames,
	SectionGadgets,
}

func (s Section) String() string {
	return string(s)
}

// Product is a catalog item. Brand refers to Brand.Name and is not checked
// against the brand collection.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Section     Section `json:"section"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
	Used        bool    `json:"used"`
	Brand       string  `json:"brand"`
}
