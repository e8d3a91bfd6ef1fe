//go:build medium_tests || contract_tests || all_tests

package db

import (
	"context"
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/testutils"
	"github.com/zeroprod/newsletter/types"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

var useAwsDb bool
var dynamodbDockerVersion string
var maxTableWaitAttempts int
var durationBetweenAttempts time.Duration

func init() {
	flag.BoolVar(
		&useAwsDb,
		"awsdb",
		false,
		"Test against DynamoDB in AWS (instead of local Docker container)",
	)
	flag.StringVar(
		&dynamodbDockerVersion,
		"dynDbDockerVersion",
		"2.5.2",
		"Version of the amazon/dynamodb-local Docker image to test against",
	)
	flag.IntVar(
		&maxTableWaitAttempts,
		"dbwaitattempts",
		3,
		"Maximum times to wait for a new DynamoDB table to become active",
	)
	flag.DurationVar(
		&durationBetweenAttempts,
		"dbwaitattemptduration",
		5*time.Second,
		"Duration to wait between each DynamoDB table status check",
	)
}

func setupDynamoDb() (dynDb *DynamoDb, teardown func() error, err error) {
	var teardownDb func() error
	teardownDbWithError := func(err error) error {
		if err == nil {
			return teardownDb()
		} else if teardownErr := teardownDb(); teardownErr != nil {
			const msgFmt = "teardown after error failed: %s\noriginal error: %s"
			return fmt.Errorf(msgFmt, teardownErr, err)
		}
		return err
	}

	tableName := "newsletter-subscriptions-test-" + testutils.RandomString(10)
	maxAttempts := maxTableWaitAttempts
	sleep := func() { time.Sleep(durationBetweenAttempts) }
	doSetup := setupLocalDynamoDb
	ctx := context.Background()

	if useAwsDb {
		doSetup = setupAwsDynamoDb
	}

	if dynDb, teardownDb, err = doSetup(tableName); err != nil {
		return
	} else if err = dynDb.CreateTable(ctx); err != nil {
		err = teardownDbWithError(err)
	} else if err = dynDb.WaitForTable(ctx, maxAttempts, sleep); err != nil {
		err = teardownDbWithError(err)
	} else {
		teardown = func() error {
			return teardownDbWithError(dynDb.DeleteTable(ctx))
		}
	}
	return
}

func setupAwsDynamoDb(
	tableName string,
) (dynDb *DynamoDb, teardown func() error, err error) {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		err = fmt.Errorf("failed to configure DynamoDB: %s", err)
	} else {
		dynDb = NewDynamoDb(cfg, tableName)
		teardown = func() error { return nil }
	}
	return
}

// See also:
// - https://docs.aws.amazon.com/amazondynamodb/latest/developerguide/DynamoDBLocal.DownloadingAndRunning.html
// - https://hub.docker.com/r/amazon/dynamodb-local
func setupLocalDynamoDb(
	tableName string,
) (dynDb *DynamoDb, teardown func() error, err error) {
	cfg, endpoint, err := testutils.AwsConfig()
	if err != nil {
		err = fmt.Errorf("failed to configure local DynamoDB: %s", err)
		return
	}

	dockerImage := "amazon/dynamodb-local:" + dynamodbDockerVersion
	teardown, err = testutils.LaunchDockerContainer(
		dynamodb.ServiceID, *endpoint, 8000, dockerImage,
	)
	if err == nil {
		baseEndpoint := "http://" + string(*endpoint)
		dynDb = NewDynamoDb(*cfg, tableName, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(baseEndpoint)
		})
	}
	return
}

func newTestSubscription() *types.Subscription {
	email := testutils.RandomEmail(8, "example.com")
	return types.NewSubscription(
		uuid.New(),
		types.MustParseSubscriberEmail(email),
		types.MustParseSubscriberName("Ursula "+testutils.RandomString(6)),
		time.Now(),
	)
}

func TestDynamoDb(t *testing.T) {
	testDb, teardown, err := setupDynamoDb()

	assert.NilError(t, err)
	defer func() {
		err := teardown()
		assert.NilError(t, err)
	}()

	ctx := context.Background()
	var badDb DynamoDb = *testDb
	badDb.TableName = testDb.TableName + "-nonexistent"

	// Note that the success cases for CreateTable, WaitForTable, and
	// DeleteTable are confirmed by setupDynamoDb() and teardown() above.
	t.Run("CreateTableFailsIfTableExists", func(t *testing.T) {
		err := testDb.CreateTable(ctx)

		expected := "failed to create db table " + testDb.TableName + ": "
		assert.ErrorContains(t, err, expected)
	})

	t.Run("DeleteTableFailsIfTableDoesNotExist", func(t *testing.T) {
		err := badDb.DeleteTable(ctx)

		expected := "failed to delete db table " + badDb.TableName + ": "
		assert.ErrorContains(t, err, expected)
	})

	t.Run("PutAndGetSucceed", func(t *testing.T) {
		sub := newTestSubscription()

		putErr := testDb.Put(ctx, sub)
		retrieved, getErr := testDb.Get(ctx, sub.Email)

		assert.NilError(t, putErr)
		assert.NilError(t, getErr)
		assert.DeepEqual(t, sub, retrieved)
	})

	t.Run("PutFailsIfEmailAlreadySubscribed", func(t *testing.T) {
		sub := newTestSubscription()
		assert.NilError(t, testDb.Put(ctx, sub))

		dup := types.NewSubscription(uuid.New(), sub.Email, sub.Name, time.Now())

		err := testDb.Put(ctx, dup)

		assert.Assert(t, testutils.ErrorIs(err, ErrDuplicateEmail))
	})

	t.Run("DescribeTable", func(t *testing.T) {
		t.Run("Succeeds", func(t *testing.T) {
			td, err := testDb.DescribeTable(ctx)

			assert.NilError(t, err)
			assert.Equal(t, dtypes.TableStatusActive, td.TableStatus)
		})

		t.Run("FailsIfTableDoesNotExist", func(t *testing.T) {
			td, err := badDb.DescribeTable(ctx)

			assert.Assert(t, is.Nil(td))
			errMsg := "failed to describe db table " + badDb.TableName
			assert.ErrorContains(t, err, errMsg)
			assert.ErrorContains(t, err, "ResourceNotFoundException")
		})
	})

	t.Run("GetFails", func(t *testing.T) {
		t.Run("IfSubscriptionDoesNotExist", func(t *testing.T) {
			sub := newTestSubscription()

			retrieved, err := testDb.Get(ctx, sub.Email)

			assert.Assert(t, is.Nil(retrieved))
			assert.Assert(t, testutils.ErrorIs(err, ErrSubscriptionNotFound))
		})

		t.Run("IfTableDoesNotExist", func(t *testing.T) {
			sub := newTestSubscription()

			retrieved, err := badDb.Get(ctx, sub.Email)

			assert.Assert(t, is.Nil(retrieved))
			expected := "failed to get " + logging.RedactEmail(sub.Email.String()) + ": "
			assert.ErrorContains(t, err, expected)
		})
	})

	t.Run("PutFailsIfTableDoesNotExist", func(t *testing.T) {
		sub := newTestSubscription()

		err := badDb.Put(ctx, sub)

		assert.ErrorContains(
			t, err, "failed to put "+logging.RedactEmail(sub.Email.String())+": ",
		)
	})
}
