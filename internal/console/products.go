package console

import (
	"context"
	"strings"

	"recloop-admin/internal/domain"
	"recloop-admin/pkg/utils"
)

// ProductView 某个审核筛选下的商品与各筛选计数
type ProductView struct {
	Filter   domain.ModerationState         `json:"filter"`
	Items    []domain.Product               `json:"items"`
	Counts   map[domain.ModerationState]int `json:"counts"`
	Loading  bool                           `json:"loading"`
	Error    string                         `json:"error"`
	Selected *domain.Product                `json:"selected"`
	Version  uint64                         `json:"version"`
}

func (c *Console) ListProducts(ctx context.Context) error {
	return c.Products.Load(ctx, c.fetchProducts)
}

func (c *Console) fetchProducts(ctx context.Context) ([]domain.Product, error) {
	ps, err := c.api.ListProducts(ctx, c.token())
	for i := range ps {
		ps[i] = cleanProduct(ps[i])
	}
	return ps, err
}

func (c *Console) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return c.Products.LoadOne(ctx, func(ctx context.Context) (domain.Product, error) {
		p, err := c.api.GetProduct(ctx, c.token(), id)
		return cleanProduct(p), err
	})
}

// ApproveProduct 只替换该商品，不整表刷新
func (c *Console) ApproveProduct(ctx context.Context, id int64) (domain.Product, error) {
	return c.Products.Apply(ctx, func(ctx context.Context) (domain.Product, error) {
		p, err := c.api.ApproveProduct(ctx, c.token(), id)
		return cleanProduct(p), err
	})
}

func (c *Console) RejectProduct(ctx context.Context, id int64, reason string) (domain.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Product{}, invalid("rejectedReason", "Please provide a reason for rejection")
	}
	return c.Products.Apply(ctx, func(ctx context.Context) (domain.Product, error) {
		p, err := c.api.RejectProduct(ctx, c.token(), id, reason)
		return cleanProduct(p), err
	})
}

// FilterProducts 按审核状态筛选当前缓存
func (c *Console) FilterProducts(f domain.ModerationState) ProductView {
	s := c.Products.Snapshot()
	// 计数与列表用同一判定，同时通过+驳回的商品在两个视图里都算
	counts := map[domain.ModerationState]int{}
	for _, st := range []domain.ModerationState{
		domain.ModerationAll, domain.ModerationPending, domain.ModerationApproved, domain.ModerationRejected,
	} {
		n := 0
		for _, p := range s.Items {
			if p.Matches(st) {
				n++
			}
		}
		counts[st] = n
	}
	v := ProductView{
		Filter:   f,
		Items:    make([]domain.Product, 0, len(s.Items)),
		Counts:   counts,
		Loading:  s.Loading,
		Error:    s.Error,
		Selected: s.Selected,
		Version:  s.Version,
	}
	for _, p := range s.Items {
		if p.Matches(f) {
			v.Items = append(v.Items, p)
		}
	}
	return v
}

func cleanProduct(p domain.Product) domain.Product {
	p.Title = utils.CleanText(p.Title)
	p.Descriptions = utils.CleanText(p.Descriptions)
	p.Locations = utils.CleanText(p.Locations)
	p.Condition = utils.CleanText(p.Condition)
	if p.RejectedReason != nil {
		r := utils.CleanText(*p.RejectedReason)
		p.RejectedReason = &r
	}
	return p
}
