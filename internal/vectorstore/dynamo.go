package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore stores embedding records in a DynamoDB table keyed by chunk_id.
// The embedding vector is stored as a JSON string attribute and parsed on
// read, matching the table layout written by the ingestion pipeline.
type DynamoStore struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoStore wraps an existing DynamoDB client for the given table.
func NewDynamoStore(client *dynamodb.Client, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// Scan returns one page of the table. The continuation token is the chunk_id
// of DynamoDB's LastEvaluatedKey.
func (d *DynamoStore) Scan(ctx context.Context, startToken string) ([]EmbeddingRecord, string, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(d.table)}
	if startToken != "" {
		in.ExclusiveStartKey = chunkKey(startToken)
	}

	out, err := d.client.Scan(ctx, in)
	if err != nil {
		return nil, "", fmt.Errorf("%w: scanning %s: %v", ErrUnavailable, d.table, err)
	}

	page := make([]EmbeddingRecord, 0, len(out.Items))
	for _, item := range out.Items {
		rec, err := itemToRecord(item)
		if err != nil {
			return nil, "", fmt.Errorf("decoding item in %s: %w", d.table, err)
		}
		page = append(page, rec)
	}

	next := ""
	if key, ok := out.LastEvaluatedKey["chunk_id"]; ok {
		if s, ok := key.(*types.AttributeValueMemberS); ok {
			next = s.Value
		}
	}
	return page, next, nil
}

func (d *DynamoStore) Put(ctx context.Context, rec EmbeddingRecord) error {
	vec, err := json.Marshal(rec.Embedding)
	if err != nil {
		return fmt.Errorf("encoding embedding for chunk %s: %w", rec.ChunkID, err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]types.AttributeValue{
			"chunk_id":    &types.AttributeValueMemberS{Value: rec.ChunkID},
			"document_id": &types.AttributeValueMemberS{Value: rec.DocumentID},
			"file_name":   &types.AttributeValueMemberS{Value: rec.FileName},
			"text":        &types.AttributeValueMemberS{Value: rec.Text},
			"embedding":   &types.AttributeValueMemberS{Value: string(vec)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: putting chunk %s: %v", ErrUnavailable, rec.ChunkID, err)
	}
	return nil
}

func (d *DynamoStore) Delete(ctx context.Context, chunkID string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key:       chunkKey(chunkID),
	})
	if err != nil {
		return fmt.Errorf("%w: deleting chunk %s: %v", ErrUnavailable, chunkID, err)
	}
	return nil
}

// DeleteByDocument scans with a server-side filter on document_id and deletes
// every matching chunk. Returns the number deleted; on error the count covers
// deletes that already went through.
func (d *DynamoStore) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	deleted := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(d.table),
			FilterExpression:          aws.String("document_id = :d"),
			ProjectionExpression:      aws.String("chunk_id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":d": &types.AttributeValueMemberS{Value: documentID}},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return deleted, fmt.Errorf("%w: scanning %s for document %s: %v", ErrUnavailable, d.table, documentID, err)
		}

		for _, item := range out.Items {
			s, ok := item["chunk_id"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			if err := d.Delete(ctx, s.Value); err != nil {
				return deleted, err
			}
			deleted++
		}

		if len(out.LastEvaluatedKey) == 0 {
			return deleted, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func chunkKey(chunkID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"chunk_id": &types.AttributeValueMemberS{Value: chunkID},
	}
}

func itemToRecord(item map[string]types.AttributeValue) (EmbeddingRecord, error) {
	rec := EmbeddingRecord{
		ChunkID:    stringAttr(item, "chunk_id"),
		DocumentID: stringAttr(item, "document_id"),
		FileName:   stringAttr(item, "file_name"),
		Text:       stringAttr(item, "text"),
	}
	raw := stringAttr(item, "embedding")
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &rec.Embedding); err != nil {
			return EmbeddingRecord{}, fmt.Errorf("chunk %s: parsing embedding: %w", rec.ChunkID, err)
		}
	}
	return rec, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
