// Package ratewindow implements multi-window sliding-rate tracking per
// (arbitrary) "category". It backs two unrelated concerns in this module:
// the per-category log rate limiter in package log, and the instantaneous
// throughput view exposed by the metrics package alongside the mandatory
// cumulative byte counters. Rates are applied independently to each
// category, each with its own event ring buffer.
package ratewindow
