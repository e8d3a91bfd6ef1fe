//go:build small_tests || all_tests

package db

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/zeroprod/newsletter/testutils"
)

// TestDynamoDbClient keeps items in memory, keyed by email address.
//
// dynamodb_contract_test.go validates the real client's behavior, including
// the conditional put. This double mimics just enough of it to test the
// parsing and error handling in DynamoDb quickly.
type TestDynamoDbClient struct {
	ServerErr         error
	CreateTableInput  *dynamodb.CreateTableInput
	CreateTableOutput *dynamodb.CreateTableOutput
	CreateTableErr    error
	DescTableInput    *dynamodb.DescribeTableInput
	DescTableOutput   *dynamodb.DescribeTableOutput
	DescTableErr      error
	DescTableCalls    int
	PutItemInput      *dynamodb.PutItemInput
	Items             map[string]dbAttributes
}

// NewTestDynamoDbClient returns an initialized TestDynamoDbClient.
//
// Specifically, all of its *Output members are initialized to default non-nil
// values.
func NewTestDynamoDbClient() *TestDynamoDbClient {
	tableDesc := &dtypes.TableDescription{
		TableName:   aws.String(""),
		TableStatus: dtypes.TableStatusActive,
	}

	return &TestDynamoDbClient{
		CreateTableOutput: &dynamodb.CreateTableOutput{
			TableDescription: tableDesc,
		},
		DescTableOutput: &dynamodb.DescribeTableOutput{Table: tableDesc},
		Items:           make(map[string]dbAttributes, 10),
	}
}

func (client *TestDynamoDbClient) SetServerError(msg string) {
	client.ServerErr = testutils.AwsServerError(msg)
}

func (client *TestDynamoDbClient) SetCreateTableError(msg string) {
	client.CreateTableErr = testutils.AwsServerError(msg)
}

func (client *TestDynamoDbClient) SetDescribeTableError(msg string) {
	client.DescTableErr = testutils.AwsServerError(msg)
}

func (client *TestDynamoDbClient) CreateTable(
	_ context.Context,
	input *dynamodb.CreateTableInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.CreateTableOutput, error) {
	client.CreateTableInput = input
	return client.CreateTableOutput, client.CreateTableErr
}

func (client *TestDynamoDbClient) DescribeTable(
	_ context.Context,
	input *dynamodb.DescribeTableInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.DescribeTableOutput, error) {
	client.DescTableCalls++
	client.DescTableInput = input
	return client.DescTableOutput, client.DescTableErr
}

func (client *TestDynamoDbClient) DeleteTable(
	context.Context, *dynamodb.DeleteTableInput, ...func(*dynamodb.Options),
) (*dynamodb.DeleteTableOutput, error) {
	return &dynamodb.DeleteTableOutput{}, client.ServerErr
}

func (client *TestDynamoDbClient) GetItem(
	_ context.Context,
	input *dynamodb.GetItemInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.GetItemOutput, error) {
	if client.ServerErr != nil {
		return nil, client.ServerErr
	}
	key, _ := (&dbParser{input.Key}).GetString(DynamoDbPrimaryKey)
	return &dynamodb.GetItemOutput{Item: client.Items[key]}, nil
}

func (client *TestDynamoDbClient) PutItem(
	_ context.Context,
	input *dynamodb.PutItemInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.PutItemOutput, error) {
	client.PutItemInput = input

	if client.ServerErr != nil {
		return nil, client.ServerErr
	}
	key, _ := (&dbParser{input.Item}).GetString(DynamoDbPrimaryKey)

	if _, exists := client.Items[key]; exists &&
		aws.ToString(input.ConditionExpression) == putConditionExpression {
		return nil, &dtypes.ConditionalCheckFailedException{
			Message: aws.String("The conditional request failed"),
		}
	}
	client.Items[key] = input.Item
	return &dynamodb.PutItemOutput{}, nil
}
