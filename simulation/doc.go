// Package simulation evaluates the estimator on synthetic classes.
//
// A class is a set of submissions, each authored by a group of peers. Every
// peer has a hidden quality q and scores a submission with the mean of q
// uniform draws on [0, 1), so every true grade is 0.5 and a peer's true
// variance is 1/(12q). Evaluate builds one class, assigns reviews with the
// covered strategy, estimates twice (with the visible ground truths and with
// every ground truth) and reports the absolute errors. Run repeats Evaluate
// and averages the error statistics.
//
// Runs are sequential and reproducible for a given seed.
package simulation
