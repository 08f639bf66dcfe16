// Package cryptofolio provides the entities and the valuation engine of a
// personal crypto-portfolio tracker.
//
// The core functionalities include:
//   - Entities: Cryptocurrency, Portfolio, Transaction and User. They are
//     built through constructors that check every invariant at once, and an
//     invalid entity is never returned. Mutators re-check the candidate value
//     and leave the entity unchanged on failure.
//   - Validation: Violations accumulates every broken invariant into a single
//     *ValidationError.
//   - Valuation: a stateless engine computing balances from transactions, the
//     total value of holdings and the profit and loss of a transaction.
//   - Encoding: entities encode to JSON with a stable field order, decimals as
//     exact JSON numbers and instants in RFC 3339.
//
// Persistence lives in the repository package and use cases in the service
// package. The cfo command-line tool is built on top of them.
package cryptofolio
