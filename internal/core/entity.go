package core

// Entity is any stored row addressed by a numeric id.
type Entity interface {
	GetID() int64
}

func (u User) GetID() int64               { return u.ID }
func (a Account) GetID() int64            { return a.ID }
func (c Category) GetID() int64           { return c.ID }
func (f Fund) GetID() int64               { return f.ID }
func (y Year) GetID() int64               { return y.ID }
func (m MonthlyRecord) GetID() int64      { return m.ID }
func (b MonthlyBalance) GetID() int64     { return b.ID }
func (a CategoryAllocation) GetID() int64 { return a.ID }
func (c FundContribution) GetID() int64   { return c.ID }
