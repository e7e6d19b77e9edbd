package geocode

// Seed preloads a known name→Result mapping into the in-memory tier,
// letting callers register locations read from a trusted table (the
// LocationRow) without spending an upstream lookup or rate-limit slot.
func (g *Geocoder) Seed(name string, res Result) {
	g.storeMemory(normalizeKey(name), res)
}
