// Package bedrock implements ai.Embedder over AWS Bedrock embedding models.
//
// Two model families are supported, chosen by the model identifier: Amazon
// Titan (amazon.titan-embed-*) and Cohere (cohere.embed-*). The families
// speak different request shapes over the same InvokeModel API; Titan
// embeds one text per call while Cohere accepts batches. Credentials and
// region resolve through the standard AWS SDK chain.
package bedrock
