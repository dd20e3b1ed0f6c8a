package contracts

// Identities travel as base58 strings; amounts as base units plus a
// whole-token rendering for display.

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type InitializeAssetRequest struct {
	Mint            string `json:"mint"`
	Admin           string `json:"admin"`
	MintAuthority   string `json:"mint_authority"`
	FreezeAuthority string `json:"freeze_authority"`
	Destination     string `json:"destination"`
}

type ControlStateDTO struct {
	Mint     string `json:"mint"`
	IsPaused bool   `json:"is_paused"`
	Admin    string `json:"admin"`
}

type InitializeAssetResponse struct {
	Status string `json:"status"`
	Data   struct {
		State           ControlStateDTO `json:"state"`
		Decimals        uint8           `json:"decimals"`
		InitialSupply   uint64          `json:"initial_supply"`
		InitialSupplyUI string          `json:"initial_supply_ui"`
	} `json:"data"`
}

type IssueRequest struct {
	Mint          string `json:"mint"`
	Destination   string `json:"destination"`
	MintAuthority string `json:"mint_authority"`
	Amount        uint64 `json:"amount"`
}

type DestroyRequest struct {
	Mint      string `json:"mint"`
	Source    string `json:"source"`
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
}

type MoveRequest struct {
	Mint        string `json:"mint"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Authority   string `json:"authority"`
	Amount      uint64 `json:"amount"`
}

type FreezeRequest struct {
	Mint            string `json:"mint"`
	Account         string `json:"account"`
	FreezeAuthority string `json:"freeze_authority"`
}

type OperationResponse struct {
	Status string `json:"status"`
	Data   struct {
		Operation string `json:"operation"`
		Mint      string `json:"mint"`
		Amount    uint64 `json:"amount,omitempty"`
		AmountUI  string `json:"amount_ui,omitempty"`
	} `json:"data"`
}

type PauseRequest struct {
	Mint   string `json:"mint"`
	Caller string `json:"caller"`
}

type PauseResponse struct {
	Status  string          `json:"status"`
	Changed bool            `json:"changed"`
	Data    ControlStateDTO `json:"data"`
}

type ControlStateRequest struct {
	Mint string `json:"mint"`
}

type ControlStateResponse struct {
	Status string          `json:"status"`
	Data   ControlStateDTO `json:"data"`
}
