package domain

// StockItem é um par (produto, quantidade) submetido à validação ou ao ajuste de estoque.
// ProductID vazio indica item avulso, fora do catálogo.
type StockItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// StockDirection indica o sentido do ajuste.
type StockDirection int

const (
	StockDecrement StockDirection = iota + 1
	StockRestore
)

func (d StockDirection) String() string {
	switch d {
	case StockDecrement:
		return "decrement"
	case StockRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// StockValidation é o resultado exaustivo da checagem de disponibilidade.
type StockValidation struct {
	IsValid    bool     `json:"is_valid"`
	Violations []string `json:"violations"`
}

// StockApplyResult descreve o que um ajuste em lote conseguiu gravar.
// Affected e Applied listam apenas os produtos efetivamente alterados.
type StockApplyResult struct {
	Success  bool
	Affected []string
	Applied  []StockItem
	Err      error
}

// StockValidateRequest é o payload de POST /v1/stock/validate.
type StockValidateRequest struct {
	Items []StockItem `json:"items"`
}
