package provider

// Organization is the subset of a provider company record used for enrichment.
type Organization struct {
	// Name is the organization display name, if provided.
	Name string

	// PrimaryDomain is the domain the provider associates with the organization.
	PrimaryDomain string

	// Industry is the provider's industry label. Empty when absent.
	Industry string
}

// HasIndustry reports whether the organization carries a usable industry.
func (o *Organization) HasIndustry() bool {
	return o != nil && o.Industry != ""
}
