package pit38

import (
	"fmt"
	"slices"

	"github.com/pit38/pit38/date"
)

// openLot is a purchase with its unconsumed balance, its cost already in
// local currency so every slice of it converts on the purchase's own
// reference date.
type openLot struct {
	tx        ClassifiedTransaction
	remaining Quantity
	cost      Money // local-currency cost of the remaining balance
	rateDate  date.Date
}

// MatchFIFO costs out every sale by consuming purchase lots in strict
// chronological order, per instrument. Purchases queue by trade date, ties
// broken by ingestion order; a sale consumes from the front of the queue,
// splitting a lot when it only partially covers the sold quantity.
//
// All sales are matched regardless of tax year so that cross-year FIFO
// consumption is correct; the aggregator filters disposals by year.
//
// Selling more shares than the queue holds is an oversold condition: it
// signals an incomplete or overlapping import, not a valid tax state, and
// aborts the run.
func MatchFIFO(txs []ClassifiedTransaction, conv *Converter) ([]Disposal, []RemainingLot, error) {
	queues := make(map[string][]*openLot)
	order := make([]string, 0) // instruments in first-seen order, for stable output

	for _, tx := range txs {
		if !tx.Category.IsPurchase() {
			continue
		}
		cost, rateDate, err := conv.ToLocal(tx.AmountUSD.Abs(), tx.SettlementDate)
		if err != nil {
			return nil, nil, fmt.Errorf("converting purchase on %s: %w", tx.TradeDate, err)
		}
		if _, seen := queues[tx.Investment]; !seen {
			order = append(order, tx.Investment)
		}
		queues[tx.Investment] = append(queues[tx.Investment], &openLot{
			tx:        tx,
			remaining: tx.Shares.Abs(),
			cost:      cost,
			rateDate:  rateDate,
		})
	}
	for _, queue := range queues {
		slices.SortStableFunc(queue, func(a, b *openLot) int {
			switch {
			case a.tx.TradeDate.Before(b.tx.TradeDate):
				return -1
			case a.tx.TradeDate.After(b.tx.TradeDate):
				return 1
			}
			return 0
		})
	}

	sales := make([]ClassifiedTransaction, 0)
	for _, tx := range txs {
		if tx.Category == Sale {
			sales = append(sales, tx)
		}
	}
	slices.SortStableFunc(sales, func(a, b ClassifiedTransaction) int {
		switch {
		case a.TradeDate.Before(b.TradeDate):
			return -1
		case a.TradeDate.After(b.TradeDate):
			return 1
		}
		return 0
	})

	var disposals []Disposal
	for _, sale := range sales {
		queue := queues[sale.Investment]

		qty := sale.Shares.Abs()
		var available Quantity
		for _, lot := range queue {
			available = available.Add(lot.remaining)
		}
		if qty.GreaterThan(available) {
			return nil, nil, fmt.Errorf("oversold: sale of %s %s on %s exceeds the %s shares bought before it",
				qty, sale.Investment, sale.SettlementDate, available)
		}

		proceeds, proceedsRateDate, err := conv.ToLocal(sale.AmountUSD.Abs(), sale.SettlementDate)
		if err != nil {
			return nil, nil, fmt.Errorf("converting sale on %s: %w", sale.TradeDate, err)
		}
		soldQty := qty

		for qty.IsPositive() {
			// The front of the queue is the oldest lot with a balance.
			var lot *openLot
			for _, l := range queue {
				if l.remaining.IsPositive() {
					lot = l
					break
				}
			}
			match := qty.Min(lot.remaining)

			// Proportional share of the lot's cost and of the sale's proceeds.
			sliceCost := lot.cost.Mul(match).Div(lot.remaining)
			sliceProceeds := proceeds.Mul(match).Div(soldQty)

			disposals = append(disposals, Disposal{
				Investment:       sale.Investment,
				SaleDate:         sale.SettlementDate,
				AcquiredOn:       lot.tx.SettlementDate,
				Quantity:         match,
				Proceeds:         sliceProceeds.Round2(),
				Cost:             sliceCost.Round2(),
				CostOrigin:       OriginExact,
				ProceedsRateDate: proceedsRateDate,
				CostRateDate:     lot.rateDate,
			})

			lot.cost = lot.cost.Sub(sliceCost)
			lot.remaining = lot.remaining.Sub(match)
			qty = qty.Sub(match)
		}
	}

	var remaining []RemainingLot
	for _, investment := range order {
		for _, lot := range queues[investment] {
			if lot.remaining.IsPositive() {
				remaining = append(remaining, RemainingLot{
					Investment: investment,
					AcquiredOn: lot.tx.SettlementDate,
					Quantity:   lot.remaining,
					Cost:       lot.cost,
				})
			}
		}
	}
	return disposals, remaining, nil
}
