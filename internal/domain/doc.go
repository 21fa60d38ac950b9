// Package domain defines the emotion label set, score and relevance value
// types, the analysis result, and the interfaces adapters implement
// (Classifier, HistoryRepository, ResultCache). It holds no adapter code.
package domain
