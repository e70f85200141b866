package catalog

// Payload is the canonical catalog as published by the menu source.
type Payload struct {
	Categories []CategoryPayload `json:"categories" yaml:"categories"`
}

type CategoryPayload struct {
	ID    string        `json:"id"    yaml:"id"`
	Name  string        `json:"name"  yaml:"name"`
	Rank  int           `json:"rank"  yaml:"rank"`
	Items []ItemPayload `json:"items" yaml:"items"`
}

// ItemPayload uses pointers for price and availability so a missing price can be told
// apart from a free item. Availability defaults to true.
type ItemPayload struct {
	ID        string `json:"id"        yaml:"id"`
	Name      string `json:"name"      yaml:"name"`
	Price     *int64 `json:"price"     yaml:"price"`
	Available *bool  `json:"available" yaml:"available"`
}
