package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of *dynamodb.Client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type userRecord struct {
	Username     string `dynamodbav:"username"`
	PasswordHash string `dynamodbav:"password_hash"`
	CreatedAt    int64  `dynamodbav:"created_at"`
}

// DynamoStore keeps users in a table whose partition key is "username".
type DynamoStore struct {
	client DynamoAPI
	table  string
}

var _ CredentialStore = (*DynamoStore)(nil)

func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) Close() error { return nil }

func (s *DynamoStore) CreateUser(ctx context.Context, username, password string) error {
	username, err := normalize(username, password)
	if err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to hash password: %w", err)
	}

	item, err := attributevalue.MarshalMap(userRecord{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to marshal user: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(username)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrUserExists
		}
		return fmt.Errorf("[DynamoDB] failed to put user: %w", err)
	}

	slog.Info("[DynamoDB] User created",
		slog.String("username", username))
	return nil
}

func (s *DynamoStore) ValidateUser(ctx context.Context, username, password string) (bool, error) {
	username, err := normalize(username, password)
	if err != nil {
		return false, nil
	}

	key, err := attributevalue.MarshalMap(map[string]string{"username": username})
	if err != nil {
		return false, fmt.Errorf("[DynamoDB] failed to marshal key: %w", err)
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("[DynamoDB] failed to get user: %w", err)
	}
	if len(out.Item) == 0 {
		return false, nil
	}

	var rec userRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return false, fmt.Errorf("[DynamoDB] failed to unmarshal user: %w", err)
	}

	return passwordMatches(rec.PasswordHash, password), nil
}
