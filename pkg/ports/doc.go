/*
Package ports defines the driven ports (interfaces) for the credence engine.

These interfaces decouple the inference core from external implementations,
allowing the engine to work with various network sources and session storage
backends.

# Key Interfaces

  - NetworkLoader: loads declarative network descriptions (e.g. from YAML
    files or a Loam repository).
  - StateStore: persists session State so a stepped network can be resumed.
*/
package ports
