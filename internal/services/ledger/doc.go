/*
Package ledger awards loyalty points.

A purchase at a merchant earns one point per whole currency unit paid after
discounts. Customers may redeem coupons ("bons") at 100 points each for 10%
off; merchants may attach one of their offers for its own percentage. Compute
does the arithmetic without side effects. Service wraps it with lookups and
the write path: every accepted award appends exactly one Transaction and
increments the customer's balance by its net change, both in a single
database transaction with the customer row locked.

A customer's balance therefore always equals the sum of net points over its
transactions.
*/
package ledger
