package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	input *dynamodb.UpdateItemInput
	err   error
}

func (f *fakeDynamo) UpdateItem(
	ctx context.Context,
	params *dynamodb.UpdateItemInput,
	optFns ...func(*dynamodb.Options),
) (*dynamodb.UpdateItemOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func TestMergeAI_SetsOnlyAIAttribute(t *testing.T) {
	fake := &fakeDynamo{}
	repo := &Repo{DB: fake, Table: "reports"}

	result := AIResult{
		Category:  "bulk",
		Labels:    []string{"Tire"},
		Timestamp: "2026-08-29T12:00:00Z",
	}
	err := repo.MergeAI(context.Background(), "abc123", result)
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "reports", *fake.input.TableName)
	assert.Equal(t,
		&ddbtypes.AttributeValueMemberS{Value: "abc123"},
		fake.input.Key["id"],
	)

	// The update expression must touch only the ai attribute.
	assert.Equal(t, "SET ai = :ai", *fake.input.UpdateExpression)

	var got AIResult
	require.NoError(t, attributevalue.Unmarshal(fake.input.ExpressionAttributeValues[":ai"], &got))
	assert.Equal(t, result, got)
}

func TestMergeAI_PropagatesStoreError(t *testing.T) {
	fake := &fakeDynamo{err: errors.New("throttled")}
	repo := &Repo{DB: fake, Table: "reports"}

	err := repo.MergeAI(context.Background(), "abc123", AIResult{Category: "mixed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc123")
}
