package types

import "strings"

// DeliveryAddress is the value copy of a retailer address embedded in carts
// and orders. Orders keep their own copy so later address edits never rewrite
// history.
type DeliveryAddress struct {
	Descricao   string  `json:"descricao"`
	Logradouro  string  `json:"logradouro"`
	Numero      string  `json:"numero"`
	Bairro      string  `json:"bairro"`
	Cidade      string  `json:"cidade"`
	UF          string  `json:"uf"`
	CEP         string  `json:"cep"`
	Complemento *string `json:"complemento,omitempty"`
}

// IsZero reports whether no address fields were populated.
func (a DeliveryAddress) IsZero() bool {
	return strings.TrimSpace(a.Logradouro) == "" &&
		strings.TrimSpace(a.Cidade) == "" &&
		strings.TrimSpace(a.CEP) == ""
}
