package storage

import "finances/internal/core"

const (
	tableUsers               = "users"
	tableAccounts            = "accounts"
	tableCategories          = "categories"
	tableFunds               = "funds"
	tableYears               = "years"
	tableMonthlyRecords      = "monthly_records"
	tableMonthlyBalances     = "monthly_balances"
	tableCategoryAllocations = "category_allocations"
	tableFundContributions   = "fund_contributions"
)

var Users = Descriptor[core.User]{
	Resource:    "users",
	Table:       tableUsers,
	OwnerColumn: "id",
	Fields: []Field{
		{Name: "email", Column: "email", Kind: KindString, Required: true},
		{Name: "password", Column: "password_hash", Kind: KindString, Required: true, WriteOnly: true},
	},
	Scan: func(s RowScanner) (core.User, error) {
		var u core.User
		err := s.Scan(&u.ID, &u.Email, scanTime(&u.CreatedAt), scanTime(&u.UpdatedAt))
		return u, err
	},
}

var Accounts = Descriptor[core.Account]{
	Resource:    "accounts",
	Table:       tableAccounts,
	OwnerColumn: "user_id",
	Fields: []Field{
		{Name: "name", Column: "name", Kind: KindString, Required: true},
		{Name: "type", Column: "type", Kind: KindString, Required: true},
	},
	Scan: func(s RowScanner) (core.Account, error) {
		var a core.Account
		err := s.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, scanTime(&a.CreatedAt), scanTime(&a.UpdatedAt))
		return a, err
	},
}

var Categories = Descriptor[core.Category]{
	Resource:    "categories",
	Table:       tableCategories,
	OwnerColumn: "user_id",
	Fields: []Field{
		{Name: "name", Column: "name", Kind: KindString, Required: true},
	},
	Scan: func(s RowScanner) (core.Category, error) {
		var c core.Category
		err := s.Scan(&c.ID, &c.UserID, &c.Name, scanTime(&c.CreatedAt), scanTime(&c.UpdatedAt))
		return c, err
	},
}

var Funds = Descriptor[core.Fund]{
	Resource:    "funds",
	Table:       tableFunds,
	OwnerColumn: "user_id",
	Fields: []Field{
		{Name: "name", Column: "name", Kind: KindString, Required: true},
		{Name: "isin", Column: "isin", Kind: KindString, Required: true},
		{Name: "categoryType", Column: "category_type", Kind: KindString, Required: true},
	},
	Scan: func(s RowScanner) (core.Fund, error) {
		var f core.Fund
		err := s.Scan(&f.ID, &f.UserID, &f.Name, &f.ISIN, &f.CategoryType, scanTime(&f.CreatedAt), scanTime(&f.UpdatedAt))
		return f, err
	},
}

var Years = Descriptor[core.Year]{
	Resource:    "years",
	Table:       tableYears,
	OwnerColumn: "user_id",
	Fields: []Field{
		{Name: "yearNumber", Column: "year_number", Kind: KindInt, Required: true},
	},
	Scan: func(s RowScanner) (core.Year, error) {
		var y core.Year
		err := s.Scan(&y.ID, &y.UserID, &y.YearNumber, scanTime(&y.CreatedAt), scanTime(&y.UpdatedAt))
		return y, err
	},
}

var MonthlyRecords = Descriptor[core.MonthlyRecord]{
	Resource:    "monthly-records",
	Table:       tableMonthlyRecords,
	OwnerColumn: "user_id",
	Fields: []Field{
		{Name: "yearId", Column: "year_id", Kind: KindRef, Required: true, Ref: tableYears},
		{Name: "month", Column: "month", Kind: KindInt, Required: true},
		{Name: "grossSalary", Column: "gross_salary", Kind: KindDecimal},
		{Name: "netSalary", Column: "net_salary", Kind: KindDecimal},
	},
	Scan: func(s RowScanner) (core.MonthlyRecord, error) {
		var m core.MonthlyRecord
		err := s.Scan(&m.ID, &m.UserID, &m.YearID, &m.Month, &m.GrossSalary, &m.NetSalary,
			scanTime(&m.CreatedAt), scanTime(&m.UpdatedAt))
		return m, err
	},
}

var MonthlyBalances = Descriptor[core.MonthlyBalance]{
	Resource: "monthly-balances",
	Table:    tableMonthlyBalances,
	Fields: []Field{
		{Name: "monthlyRecordId", Column: "monthly_record_id", Kind: KindRef, Required: true, Ref: tableMonthlyRecords},
		{Name: "accountId", Column: "account_id", Kind: KindRef, Required: true, Ref: tableAccounts},
		{Name: "balance", Column: "balance", Kind: KindDecimal},
	},
	Scan: func(s RowScanner) (core.MonthlyBalance, error) {
		var b core.MonthlyBalance
		err := s.Scan(&b.ID, &b.MonthlyRecordID, &b.AccountID, &b.Balance,
			scanTime(&b.CreatedAt), scanTime(&b.UpdatedAt))
		return b, err
	},
}

var CategoryAllocations = Descriptor[core.CategoryAllocation]{
	Resource: "categories-allocations",
	Table:    tableCategoryAllocations,
	Fields: []Field{
		{Name: "monthlyRecordId", Column: "monthly_record_id", Kind: KindRef, Required: true, Ref: tableMonthlyRecords},
		{Name: "categoryId", Column: "category_id", Kind: KindRef, Required: true, Ref: tableCategories},
		{Name: "percentageOfNet", Column: "percentage_of_net", Kind: KindDecimal},
	},
	Scan: func(s RowScanner) (core.CategoryAllocation, error) {
		var a core.CategoryAllocation
		err := s.Scan(&a.ID, &a.MonthlyRecordID, &a.CategoryID, &a.PercentageOfNet,
			scanTime(&a.CreatedAt), scanTime(&a.UpdatedAt))
		return a, err
	},
}

var FundContributions = Descriptor[core.FundContribution]{
	Resource: "fund-contributions",
	Table:    tableFundContributions,
	Fields: []Field{
		{Name: "monthlyRecordId", Column: "monthly_record_id", Kind: KindRef, Required: true, Ref: tableMonthlyRecords},
		{Name: "fundId", Column: "fund_id", Kind: KindRef, Required: true, Ref: tableFunds},
		{Name: "percentageOfInvestment", Column: "percentage_of_investment", Kind: KindDecimal},
	},
	Scan: func(s RowScanner) (core.FundContribution, error) {
		var c core.FundContribution
		err := s.Scan(&c.ID, &c.MonthlyRecordID, &c.FundID, &c.PercentageOfInvestment,
			scanTime(&c.CreatedAt), scanTime(&c.UpdatedAt))
		return c, err
	},
}
