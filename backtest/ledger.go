package backtest

// Ledger tracks open positions and the append-only transaction log
// for a single run. Intended for single-threaded sequential use; it is
// not safe for concurrent mutation.
type Ledger struct {
	positions map[string]*Position
	txns      []Transaction

	totalInvestment float64
	totalProfit     float64
}

func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]*Position)}
}

func (l *Ledger) position(symbol string) *Position {
	p, ok := l.positions[symbol]
	if !ok {
		p = &Position{Symbol: symbol}
		l.positions[symbol] = p
	}
	return p
}

// Buy acquires exactly one share at price. No cash constraint is
// modeled; a buy never fails.
func (l *Ledger) Buy(symbol, date string, price, kValue float64) {
	p := l.position(symbol)
	p.Shares++
	p.CostBasis += price
	l.totalInvestment += price

	l.txns = append(l.txns, Transaction{
		Date:   date,
		Symbol: symbol,
		Action: ActionBuy,
		Shares: 1,
		Price:  price,
		Amount: price,
		KValue: kValue,
	})
}

// SellAll liquidates the full position at price under the given action
// label (SELL or SELL_FINAL). Selling with zero shares held is a
// no-op, not an error.
func (l *Ledger) SellAll(symbol, date string, price, kValue float64, action Action) {
	p := l.position(symbol)
	if p.Shares == 0 {
		return
	}

	revenue := price * float64(p.Shares)
	profit := revenue - p.CostBasis
	l.totalProfit += profit

	l.txns = append(l.txns, Transaction{
		Date:   date,
		Symbol: symbol,
		Action: action,
		Shares: p.Shares,
		Price:  price,
		Amount: revenue,
		Profit: profit,
		KValue: kValue,
	})

	p.Shares = 0
	p.CostBasis = 0
}

// Shares reports the open share count for a symbol.
func (l *Ledger) Shares(symbol string) int64 {
	if p, ok := l.positions[symbol]; ok {
		return p.Shares
	}
	return 0
}

// Position returns a copy of the symbol's position.
func (l *Ledger) Position(symbol string) Position {
	if p, ok := l.positions[symbol]; ok {
		return *p
	}
	return Position{Symbol: symbol}
}

// Transactions returns the log in emission order.
func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.txns...)
}

// TotalInvestment is the running sum of all BUY amounts.
func (l *Ledger) TotalInvestment() float64 { return l.totalInvestment }

// TotalProfit is the running sum of profit across SELL and SELL_FINAL.
func (l *Ledger) TotalProfit() float64 { return l.totalProfit }
