package eventmodels

type TxType string

const (
	TxTypeCreate TxType = "create"
	TxTypeBuy    TxType = "buy"
	TxTypeSell   TxType = "sell"
)
