package domain

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c Category) Key() int64 { return c.ID }

type CategoryRequest struct {
	Name string `json:"name"`
}

type ModerationState string

const (
	ModerationAll      ModerationState = "all"
	ModerationPending  ModerationState = "pending"
	ModerationApproved ModerationState = "approved"
	ModerationRejected ModerationState = "rejected"
)

// ParseModerationState 无法识别时回退为 all
func ParseModerationState(s string) ModerationState {
	switch ModerationState(s) {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return ModerationState(s)
	default:
		return ModerationAll
	}
}

type Product struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Descriptions   string    `json:"descriptions"`
	Price          float64   `json:"price"`
	Condition      string    `json:"condition"`
	Locations      string    `json:"locations"`
	CategoryName   string    `json:"categoryName"`
	IsActive       bool      `json:"isActive"`
	IsApproved     bool      `json:"isApproved"`
	ApprovedAt     Timestamp `json:"approvedAt"`
	RejectedReason *string   `json:"rejectedReason"`
	CreatedAt      Timestamp `json:"createdAt"`
}

func (p Product) Key() int64 { return p.ID }

func (p Product) rejected() bool { return p.RejectedReason != nil && *p.RejectedReason != "" }

// ModerationState 审核三态；同时通过+驳回时按通过处理
func (p Product) ModerationState() ModerationState {
	switch {
	case p.IsApproved:
		return ModerationApproved
	case p.rejected():
		return ModerationRejected
	default:
		return ModerationPending
	}
}

// Conflicting 后端可能同时返回 isApproved 与 rejectedReason
func (p Product) Conflicting() bool { return p.IsApproved && p.rejected() }

// Matches 是否属于某个筛选视图
func (p Product) Matches(f ModerationState) bool {
	switch f {
	case ModerationPending:
		return !p.IsApproved && !p.rejected()
	case ModerationApproved:
		return p.IsApproved
	case ModerationRejected:
		return p.rejected()
	default:
		return true
	}
}

type RejectProductRequest struct {
	RejectedReason string `json:"rejectedReason"`
}

type Report struct {
	ID           int64     `json:"id"`
	ProductTitle string    `json:"productTitle"`
	ReporterName string    `json:"reporterName"`
	Reason       string    `json:"reason"`
	CreatedAt    Timestamp `json:"createdAt"`
	IsResolved   bool      `json:"isResolved"`
}

func (r Report) Key() int64 { return r.ID }
