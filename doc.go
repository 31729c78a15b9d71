// Package pit38 turns a brokerage's raw transaction export into the line
// items of a Polish PIT-38 income-tax return: capital-gains proceeds and
// cost basis, the flat-rate dividend tax, and foreign-tax-credit amounts,
// all converted from USD to złoty with the official NBP rate series.
//
// The core is a linear pipeline:
//   - classification tags each raw record with a semantic role,
//   - lot matching pairs each sale with the purchase lots it disposes of,
//     either chronologically (FIFO) or through an external lot manifest,
//   - currency conversion maps each leg to PLN at the rate of the last
//     publishing business day strictly before the event,
//   - aggregation folds everything into the numbered form fields with
//     statutory rounding.
//
// The engine is batch-oriented and stateless across runs: ingestion,
// rate tables, and rendering live in the fidelity, nbp, and renderer
// subpackages, and the p38 command ties them together.
package pit38
