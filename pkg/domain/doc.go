/*
Package domain contains the core domain models for the Credence engine.

It defines the entities a Bayesian network is made of (relation descriptors,
compiled nodes, evidence) free of I/O and persistence concerns, following
Hexagonal Architecture principles.

# Key Entities

  - Relation: a tagged descriptor (Prior, DependsOn, DependsOnJoint,
    FeedsInto) attaching a conditional-probability link to a variable.
  - Description: a declarative network, variable name → relations.
  - Node: the compiled per-variable bundle of forward/backward rules.
  - Evidence: an externally asserted (variable, outcome-or-belief) pair
    fixing a variable's distribution for one solve.
*/
package domain
