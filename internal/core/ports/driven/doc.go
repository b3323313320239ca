// Package driven defines the interfaces for infrastructure the core
// depends on: the embedding and generation providers, the vector index,
// document extractors and the settings store. Adapters implement these;
// services consume them.
package driven
