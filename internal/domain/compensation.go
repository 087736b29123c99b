package domain

import "github.com/shopspring/decimal"

// Compensation - снимок из четырёх компонентов вознаграждения (гросс)
type Compensation struct {
	Salary         decimal.Decimal
	QuarterlyBonus decimal.Decimal
	MonthlyBonus   decimal.Decimal
	YearlyBonus    decimal.Decimal
}

// Income возвращает суммарный доход по снимку.
// Единственное определение current_income: агрегатный SQL-путь
// (repository.CurrentIncomeExpr) обязан давать тот же результат.
func (c Compensation) Income() decimal.Decimal {
	return c.Salary.Add(c.QuarterlyBonus).Add(c.MonthlyBonus).Add(c.YearlyBonus)
}

// Equal сравнивает два снимка покомпонентно
func (c Compensation) Equal(other Compensation) bool {
	return c.Salary.Equal(other.Salary) &&
		c.QuarterlyBonus.Equal(other.QuarterlyBonus) &&
		c.MonthlyBonus.Equal(other.MonthlyBonus) &&
		c.YearlyBonus.Equal(other.YearlyBonus)
}
