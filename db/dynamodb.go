package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/types"
)

type DynamoDbClient interface {
	CreateTable(
		context.Context, *dynamodb.CreateTableInput, ...func(*dynamodb.Options),
	) (*dynamodb.CreateTableOutput, error)

	DescribeTable(
		context.Context,
		*dynamodb.DescribeTableInput,
		...func(*dynamodb.Options),
	) (*dynamodb.DescribeTableOutput, error)

	DeleteTable(
		context.Context, *dynamodb.DeleteTableInput, ...func(*dynamodb.Options),
	) (*dynamodb.DeleteTableOutput, error)

	GetItem(
		context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)

	PutItem(
		context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options),
	) (*dynamodb.PutItemOutput, error)
}

// DynamoDb stores one item per Subscription, keyed by email address.
//
// https://docs.aws.amazon.com/amazondynamodb/latest/developerguide/WorkingWithItems.html
type DynamoDb struct {
	Client    DynamoDbClient
	TableName string
}

var DynamoDbPrimaryKey string = "email"

// Stored as strings so items stay readable in the AWS console.
const dynamoDbTimestampFormat = time.RFC3339Nano

var DynamoDbCreateTableInput = &dynamodb.CreateTableInput{
	AttributeDefinitions: []dtypes.AttributeDefinition{
		{
			AttributeName: &DynamoDbPrimaryKey,
			AttributeType: dtypes.ScalarAttributeTypeS,
		},
	},
	KeySchema: []dtypes.KeySchemaElement{
		{AttributeName: &DynamoDbPrimaryKey, KeyType: dtypes.KeyTypeHash},
	},
	BillingMode: dtypes.BillingModePayPerRequest,
}

func NewDynamoDb(
	cfg aws.Config, tableName string, optFns ...func(*dynamodb.Options),
) *DynamoDb {
	return &DynamoDb{
		Client:    dynamodb.NewFromConfig(cfg, optFns...),
		TableName: tableName,
	}
}

func (db *DynamoDb) CreateTable(ctx context.Context) (err error) {
	var input dynamodb.CreateTableInput = *DynamoDbCreateTableInput
	input.TableName = &db.TableName

	if _, err = db.Client.CreateTable(ctx, &input); err != nil {
		err = fmt.Errorf("failed to create db table %s: %w", db.TableName, err)
	}
	return
}

func (db *DynamoDb) WaitForTable(
	ctx context.Context, maxAttempts int, sleep func(),
) error {
	if maxAttempts <= 0 {
		const errFmt = "maxAttempts to wait for DB table must be > 0, got: %d"
		return fmt.Errorf(errFmt, maxAttempts)
	}

	for current := 0; ; {
		td, err := db.DescribeTable(ctx)

		if err == nil && td.TableStatus == dtypes.TableStatusActive {
			return nil
		} else if current++; current == maxAttempts {
			const errFmt = "db table %s not active after " +
				"%d attempts to check; last error: %v"
			return fmt.Errorf(errFmt, db.TableName, maxAttempts, err)
		}
		sleep()
	}
}

func (db *DynamoDb) DescribeTable(
	ctx context.Context,
) (td *dtypes.TableDescription, err error) {
	input := &dynamodb.DescribeTableInput{TableName: &db.TableName}
	output, descErr := db.Client.DescribeTable(ctx, input)

	if descErr != nil {
		const errFmt = "failed to describe db table %s: %w"
		err = fmt.Errorf(errFmt, db.TableName, descErr)
	} else {
		td = output.Table
	}
	return
}

func (db *DynamoDb) DeleteTable(ctx context.Context) error {
	input := &dynamodb.DeleteTableInput{TableName: &db.TableName}
	if _, err := db.Client.DeleteTable(ctx, input); err != nil {
		return fmt.Errorf("failed to delete db table %s: %w", db.TableName, err)
	}
	return nil
}

type (
	dbString     = dtypes.AttributeValueMemberS
	dbAttributes = map[string]dtypes.AttributeValue
)

func subscriptionKey(email types.SubscriberEmail) dbAttributes {
	return dbAttributes{DynamoDbPrimaryKey: &dbString{Value: email.String()}}
}

func newSubscriptionRecord(sub *types.Subscription) dbAttributes {
	return dbAttributes{
		"email": &dbString{Value: sub.Email.String()},
		"id":    &dbString{Value: sub.Id.String()},
		"name":  &dbString{Value: sub.Name.String()},
		"subscribed_at": &dbString{
			Value: sub.SubscribedAt.Format(dynamoDbTimestampFormat),
		},
	}
}

type dbParser struct {
	attrs dbAttributes
}

func parseSubscription(attrs dbAttributes) (*types.Subscription, error) {
	p := dbParser{attrs}
	sub := &types.Subscription{}
	var rawEmail, rawName string
	var err error
	errs := make([]error, 0, 4)
	addErr := func(e error) {
		errs = append(errs, e)
	}

	if rawEmail, err = p.GetString("email"); err != nil {
		addErr(err)
	}
	if sub.Id, err = p.GetUuid("id"); err != nil {
		addErr(err)
	}
	if rawName, err = p.GetString("name"); err != nil {
		addErr(err)
	}
	if sub.SubscribedAt, err = p.GetTime("subscribed_at"); err != nil {
		addErr(err)
	}

	if err = errors.Join(errs...); err != nil {
		return nil, errors.New("failed to parse subscription: " + err.Error())
	}
	return parseRecord(sub, rawEmail, rawName)
}

func (p *dbParser) GetString(name string) (value string, err error) {
	return getAttribute(name, p.attrs, func(attr *dbString) (string, error) {
		return attr.Value, nil
	})
}

func (p *dbParser) GetUuid(name string) (value uuid.UUID, err error) {
	return getAttribute(name, p.attrs, func(attr *dbString) (uuid.UUID, error) {
		return uuid.Parse(attr.Value)
	})
}

func (p *dbParser) GetTime(name string) (value time.Time, err error) {
	return getAttribute(name, p.attrs, func(attr *dbString) (time.Time, error) {
		return time.Parse(dynamoDbTimestampFormat, attr.Value)
	})
}

func getAttribute[T any, V any](
	name string, attrs dbAttributes, parse func(T) (V, error),
) (value V, err error) {
	if attr, ok := attrs[name]; !ok {
		err = fmt.Errorf("attribute '%s' not in: %+v", name, attrs)
	} else if dbAttr, ok := attr.(T); !ok {
		// Inspired by: https://stackoverflow.com/a/72626548
		const errFmt = "attribute '%s' is of type %T, not %T: %+v"
		err = fmt.Errorf(errFmt, name, attr, new(T), attr)
	} else if value, err = parse(dbAttr); err != nil {
		value = *new(V)
		const errFmt = "failed to parse '%s' from: %+v: %s"
		err = fmt.Errorf(errFmt, name, dbAttr, err)
	}
	return
}

func (db *DynamoDb) Get(
	ctx context.Context, email types.SubscriberEmail,
) (*types.Subscription, error) {
	input := &dynamodb.GetItemInput{
		Key: subscriptionKey(email), TableName: &db.TableName,
	}

	redacted := logging.RedactEmail(email.String())

	if output, err := db.Client.GetItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", redacted, err)
	} else if len(output.Item) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, redacted)
	} else {
		return parseSubscription(output.Item)
	}
}

var putConditionExpression = "attribute_not_exists(" + DynamoDbPrimaryKey + ")"

func (db *DynamoDb) Put(ctx context.Context, sub *types.Subscription) error {
	input := &dynamodb.PutItemInput{
		Item:                newSubscriptionRecord(sub),
		TableName:           &db.TableName,
		ConditionExpression: &putConditionExpression,
	}
	_, err := db.Client.PutItem(ctx, input)

	var condErr *dtypes.ConditionalCheckFailedException
	if err == nil {
		return nil
	} else if errors.As(err, &condErr) {
		err = fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	const errFmt = "failed to put %s: %w"
	return fmt.Errorf(errFmt, logging.RedactEmail(sub.Email.String()), err)
}
