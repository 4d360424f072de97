// Package hfsm is the runtime core of a hierarchical finite-state-machine
// engine for games, simulations, and interactive control code.
//
// A Machine is built once from a Topology (composite regions with exactly one
// active child, orthogonal regions with every child simultaneously active,
// and leaf states wrapping user-supplied behavior), then driven by repeated
// Update/React ticks and transition requests. Every tick produces a
// deterministic sequence of lifecycle callbacks honoring hierarchical
// composition, guarded transitions, and declarative plans.
package hfsm
