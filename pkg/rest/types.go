package rest

type Shaft struct {
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Flex         string    `json:"flex"`
	Weight       float64   `json:"weight"`
	Torque       float64   `json:"torque"`
	BalancePoint float64   `json:"balance_point"`
	TipFlex      float64   `json:"tip_flex"`
	CPM          float64   `json:"cpm"`
	EIProfile    []float64 `json:"ei_profile"`

	// Label is the text shown in shaft pickers, "Brand - Model (Flex)".
	Label string `json:"label"`
}

type ShaftList struct {
	Shafts []Shaft `json:"shafts"`
}

type Match struct {
	Shaft   Shaft  `json:"shaft"`
	Tier    string `json:"tier"`
	Summary string `json:"summary"`
}

type TierGroup struct {
	Tier    string  `json:"tier"`
	Label   string  `json:"label"`
	Matches []Match `json:"matches"`
}

type Matches struct {
	Reference Shaft       `json:"reference"`
	Groups    []TierGroup `json:"groups"`
}

type ChartDataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
}

// Chart is shaped after Chart.js line chart data.
type Chart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ComparisonRequest struct {
	Models []string `json:"models" validate:"required,min=1,unique,dive,required"`
}

type ComparisonItem struct {
	Shaft   Shaft  `json:"shaft"`
	Summary string `json:"summary"`
}

type Comparison struct {
	Shafts []ComparisonItem `json:"shafts"`
	Chart  Chart            `json:"chart"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
