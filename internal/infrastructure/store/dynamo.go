package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/review"
	"github.com/example/quickstore/internal/domain/ticket"
	"github.com/example/quickstore/internal/domain/user"
)

// Partition keys for the single-table layout.
const (
	pkProduct  = "PRODUCT"
	pkOrder    = "ORDER"
	pkTicket   = "TICKET"
	pkReview   = "REVIEW"
	pkUser     = "USER"
	pkFavorite = "FAVORITE"
	pkIdemKey  = "IDEMKEY"
)

// GSI names. gsiUser indexes (user_id, pk) for per-user listings; gsiIdem
// indexes idem_key for idempotent order replay.
const (
	gsiUser = "gsi_user"
	gsiIdem = "gsi_idem"
)

// DynamoStore keeps every entity in one table: pk is the entity kind, sk the
// entity id, and doc the JSON document. A handful of attributes (stock,
// status, user_id, idem_key) are promoted out of the document so conditional
// writes and GSI queries can use them.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

type dynamoItem struct {
	PK  string `dynamodbav:"pk"`
	SK  string `dynamodbav:"sk"`
	Doc string `dynamodbav:"doc"`
	// Stock is never omitted: adjustStock's condition compares against it,
	// and a sold-out product still needs stock = 0 to match.
	Stock     int    `dynamodbav:"stock"`
	Status    string `dynamodbav:"status,omitempty"`
	UserID    string `dynamodbav:"user_id,omitempty"`
	IdemKey   string `dynamodbav:"idem_key,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
}

func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

// ConnectDynamo builds a DynamoDB client from the ambient AWS configuration.
// An endpoint override points the client at DynamoDB Local.
func ConnectDynamo(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return client, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (s *DynamoStore) putItem(ctx context.Context, item dynamoItem, condition *string) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: condition,
	})
	return err
}

func (s *DynamoStore) getItem(ctx context.Context, pk, sk string) (*dynamoItem, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: pk},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, nil
	}
	var item dynamoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &item, nil
}

func (s *DynamoStore) deleteItem(ctx context.Context, pk, sk string) (bool, error) {
	result, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: pk},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(result.Attributes) > 0, nil
}

// queryCollection loads every item of one entity kind.
func (s *DynamoStore) queryCollection(ctx context.Context, pk string) ([]dynamoItem, error) {
	var items []dynamoItem
	var startKey map[string]types.AttributeValue
	for {
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("pk = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: pk},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range result.Items {
			var item dynamoItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			items = append(items, item)
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return items, nil
}

// queryByUser lists one entity kind for one user via the gsi_user index.
func (s *DynamoStore) queryByUser(ctx context.Context, pk, userID string) ([]dynamoItem, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(gsiUser),
		KeyConditionExpression: aws.String("user_id = :uid AND pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":pk":  &types.AttributeValueMemberS{Value: pk},
		},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dynamoItem, 0, len(result.Items))
	for _, raw := range result.Items {
		var item dynamoItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func sortNewestFirst(items []dynamoItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
}

// Products

func productItem(p *catalog.Product) (dynamoItem, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return dynamoItem{}, fmt.Errorf("marshal product: %w", err)
	}
	return dynamoItem{
		PK:        pkProduct,
		SK:        p.ID,
		Doc:       string(doc),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
	}, nil
}

func (s *DynamoStore) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	item, err := s.getItem(ctx, pkProduct, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if item == nil {
		return nil, catalog.ErrProductNotFound
	}
	var p catalog.Product
	if err := json.Unmarshal([]byte(item.Doc), &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

func (s *DynamoStore) ListProducts(ctx context.Context, activeOnly bool) ([]*catalog.Product, error) {
	items, err := s.queryCollection(ctx, pkProduct)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	sortNewestFirst(items)

	var products []*catalog.Product
	for _, item := range items {
		var p catalog.Product
		if err := json.Unmarshal([]byte(item.Doc), &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		if activeOnly && !p.IsActive {
			continue
		}
		products = append(products, &p)
	}
	return products, nil
}

func (s *DynamoStore) InsertProduct(ctx context.Context, p *catalog.Product) error {
	item, err := productItem(p)
	if err != nil {
		return err
	}
	if err := s.putItem(ctx, item, aws.String("attribute_not_exists(pk)")); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *DynamoStore) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	item, err := productItem(p)
	if err != nil {
		return err
	}
	err = s.putItem(ctx, item, aws.String("attribute_exists(pk)"))
	if isConditionFailed(err) {
		return catalog.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (s *DynamoStore) DeleteProduct(ctx context.Context, id string) error {
	found, err := s.deleteItem(ctx, pkProduct, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !found {
		return catalog.ErrProductNotFound
	}
	return nil
}

// adjustStock rewrites the product document with a conditional put keyed on
// the promoted stock attribute. The condition pins the stock the caller read,
// so concurrent adjustments retry instead of clobbering each other.
func (s *DynamoStore) adjustStock(ctx context.Context, id string, delta int) (*catalog.Product, error) {
	const maxAttempts = 5
	for attempt := 0; attempt < maxAttempts; attempt++ {
		p, err := s.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if p.Stock+delta < 0 {
			return nil, &catalog.InsufficientStockError{
				ProductID: id,
				Requested: -delta,
				Available: p.Stock,
			}
		}

		oldStock := p.Stock
		p.Stock += delta
		p.UpdatedAt = time.Now()

		item, err := productItem(p)
		if err != nil {
			return nil, err
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return nil, fmt.Errorf("marshal product: %w", err)
		}
		_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(s.tableName),
			Item:                av,
			ConditionExpression: aws.String("stock = :old"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":old": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", oldStock)},
			},
		})
		if isConditionFailed(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("adjust stock: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("adjust stock: too much contention on product %s", id)
}

func (s *DynamoStore) DecrementStock(ctx context.Context, id string, quantity int) (*catalog.Product, error) {
	return s.adjustStock(ctx, id, -quantity)
}

func (s *DynamoStore) IncrementStock(ctx context.Context, id string, quantity int) error {
	_, err := s.adjustStock(ctx, id, quantity)
	return err
}

// Orders

func orderItem(o *order.Order) (dynamoItem, error) {
	doc, err := json.Marshal(o)
	if err != nil {
		return dynamoItem{}, fmt.Errorf("marshal order: %w", err)
	}
	return dynamoItem{
		PK:        pkOrder,
		SK:        o.ID,
		Doc:       string(doc),
		Status:    string(o.Status),
		UserID:    o.UserID,
		IdemKey:   o.IdempotencyKey,
		CreatedAt: o.CreatedAt.Format(time.RFC3339Nano),
	}, nil
}

func unmarshalOrder(item dynamoItem) (*order.Order, error) {
	var o order.Order
	if err := json.Unmarshal([]byte(item.Doc), &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	o.IdempotencyKey = item.IdemKey
	return &o, nil
}

func (s *DynamoStore) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	item, err := s.getItem(ctx, pkOrder, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if item == nil {
		return nil, order.ErrOrderNotFound
	}
	return unmarshalOrder(*item)
}

// InsertOrder writes the order. A non-empty idempotency key is claimed first
// through a conditional marker item, so two concurrent retries with the same
// key cannot both insert.
func (s *DynamoStore) InsertOrder(ctx context.Context, o *order.Order) error {
	item, err := orderItem(o)
	if err != nil {
		return err
	}

	if o.IdempotencyKey != "" {
		marker := dynamoItem{
			PK:        pkIdemKey,
			SK:        o.IdempotencyKey,
			Doc:       o.ID,
			CreatedAt: o.CreatedAt.Format(time.RFC3339Nano),
		}
		err := s.putItem(ctx, marker, aws.String("attribute_not_exists(pk)"))
		if isConditionFailed(err) {
			return order.ErrDuplicateIdempotencyKey
		}
		if err != nil {
			return fmt.Errorf("claim idempotency key: %w", err)
		}
	}

	if err := s.putItem(ctx, item, aws.String("attribute_not_exists(pk)")); err != nil {
		if o.IdempotencyKey != "" {
			// Release the claim so a later retry can insert.
			_, _ = s.deleteItem(ctx, pkIdemKey, o.IdempotencyKey)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *DynamoStore) ListOrders(ctx context.Context) ([]*order.Order, error) {
	items, err := s.queryCollection(ctx, pkOrder)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	sortNewestFirst(items)
	return ordersFromItems(items)
}

func (s *DynamoStore) ListOrdersByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	items, err := s.queryByUser(ctx, pkOrder, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	sortNewestFirst(items)
	return ordersFromItems(items)
}

func ordersFromItems(items []dynamoItem) ([]*order.Order, error) {
	var orders []*order.Order
	for _, item := range items {
		o, err := unmarshalOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *DynamoStore) UpdateOrderStatus(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	o.Status = to
	o.UpdatedAt = updatedAt

	item, err := orderItem(o)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	// The condition pins the status the transition was validated against.
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("#st = :from"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: string(from)},
		},
	})
	if isConditionFailed(err) {
		return order.ErrStatusConflict
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (s *DynamoStore) GetOrderByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(gsiIdem),
		KeyConditionExpression: aws.String("idem_key = :key"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key": &types.AttributeValueMemberS{Value: key},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("get order by idempotency key: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, order.ErrOrderNotFound
	}
	var item dynamoItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return unmarshalOrder(item)
}

// Tickets

func ticketItem(t *ticket.Ticket) (dynamoItem, error) {
	doc, err := json.Marshal(t)
	if err != nil {
		return dynamoItem{}, fmt.Errorf("marshal ticket: %w", err)
	}
	return dynamoItem{
		PK:        pkTicket,
		SK:        t.ID,
		Doc:       string(doc),
		Status:    string(t.Status),
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
	}, nil
}

func unmarshalTicket(item dynamoItem) (*ticket.Ticket, error) {
	var t ticket.Ticket
	if err := json.Unmarshal([]byte(item.Doc), &t); err != nil {
		return nil, fmt.Errorf("unmarshal ticket: %w", err)
	}
	if t.Replies == nil {
		t.Replies = []ticket.Reply{}
	}
	return &t, nil
}

func (s *DynamoStore) GetTicket(ctx context.Context, id string) (*ticket.Ticket, error) {
	item, err := s.getItem(ctx, pkTicket, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if item == nil {
		return nil, ticket.ErrTicketNotFound
	}
	return unmarshalTicket(*item)
}

func (s *DynamoStore) InsertTicket(ctx context.Context, t *ticket.Ticket) error {
	item, err := ticketItem(t)
	if err != nil {
		return err
	}
	if err := s.putItem(ctx, item, aws.String("attribute_not_exists(pk)")); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (s *DynamoStore) ListTickets(ctx context.Context) ([]*ticket.Ticket, error) {
	items, err := s.queryCollection(ctx, pkTicket)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	sortNewestFirst(items)
	return ticketsFromItems(items)
}

func (s *DynamoStore) ListTicketsByUser(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	items, err := s.queryByUser(ctx, pkTicket, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets by user: %w", err)
	}
	sortNewestFirst(items)
	return ticketsFromItems(items)
}

func ticketsFromItems(items []dynamoItem) ([]*ticket.Ticket, error) {
	var tickets []*ticket.Ticket
	for _, item := range items {
		t, err := unmarshalTicket(item)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (s *DynamoStore) UpdateTicket(ctx context.Context, t *ticket.Ticket) error {
	item, err := ticketItem(t)
	if err != nil {
		return err
	}
	err = s.putItem(ctx, item, aws.String("attribute_exists(pk)"))
	if isConditionFailed(err) {
		return ticket.ErrTicketNotFound
	}
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	return nil
}

// Reviews

func (s *DynamoStore) InsertReview(ctx context.Context, r *review.Review) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	item := dynamoItem{
		PK:        pkReview,
		SK:        r.ID,
		Doc:       string(doc),
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := s.putItem(ctx, item, aws.String("attribute_not_exists(pk)")); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *DynamoStore) ListReviews(ctx context.Context, productID string) ([]*review.Review, error) {
	items, err := s.queryCollection(ctx, pkReview)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	sortNewestFirst(items)

	var reviews []*review.Review
	for _, item := range items {
		var r review.Review
		if err := json.Unmarshal([]byte(item.Doc), &r); err != nil {
			return nil, fmt.Errorf("unmarshal review: %w", err)
		}
		if productID != "" && r.ProductID != productID {
			continue
		}
		reviews = append(reviews, &r)
	}
	return reviews, nil
}

func (s *DynamoStore) DeleteReview(ctx context.Context, id string) error {
	found, err := s.deleteItem(ctx, pkReview, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if !found {
		return review.ErrReviewNotFound
	}
	return nil
}

// Users

func userItem(u *user.User) (dynamoItem, error) {
	doc, err := json.Marshal(struct {
		*user.User
		PasswordHash string `json:"password_hash"`
	}{u, u.PasswordHash})
	if err != nil {
		return dynamoItem{}, fmt.Errorf("marshal user: %w", err)
	}
	return dynamoItem{
		PK:        pkUser,
		SK:        u.ID,
		Doc:       string(doc),
		CreatedAt: u.CreatedAt.Format(time.RFC3339Nano),
	}, nil
}

func unmarshalUser(item dynamoItem) (*user.User, error) {
	var stored struct {
		user.User
		PasswordHash string `json:"password_hash"`
	}
	if err := json.Unmarshal([]byte(item.Doc), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	u := stored.User
	u.PasswordHash = stored.PasswordHash
	return &u, nil
}

func (s *DynamoStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	item, err := s.getItem(ctx, pkUser, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if item == nil {
		return nil, user.ErrUserNotFound
	}
	return unmarshalUser(*item)
}

// GetUserByMobile scans the user partition. The user collection is small and
// uncached lookups only happen at login.
func (s *DynamoStore) GetUserByMobile(ctx context.Context, mobile string) (*user.User, error) {
	items, err := s.queryCollection(ctx, pkUser)
	if err != nil {
		return nil, fmt.Errorf("get user by mobile: %w", err)
	}
	for _, item := range items {
		u, err := unmarshalUser(item)
		if err != nil {
			return nil, err
		}
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (s *DynamoStore) InsertUser(ctx context.Context, u *user.User) error {
	item, err := userItem(u)
	if err != nil {
		return err
	}
	if err := s.putItem(ctx, item, aws.String("attribute_not_exists(pk)")); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *DynamoStore) UpdateUser(ctx context.Context, u *user.User) error {
	item, err := userItem(u)
	if err != nil {
		return err
	}
	err = s.putItem(ctx, item, aws.String("attribute_exists(pk)"))
	if isConditionFailed(err) {
		return user.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Favorites

func favoriteSK(userID, productID string) string {
	return userID + "#" + productID
}

func (s *DynamoStore) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("pk = :pk AND begins_with(sk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: pkFavorite},
			":prefix": &types.AttributeValueMemberS{Value: userID + "#"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	ids := []string{}
	for _, raw := range result.Items {
		var item dynamoItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal favorite: %w", err)
		}
		ids = append(ids, item.Doc)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *DynamoStore) AddFavorite(ctx context.Context, userID, productID string) error {
	item := dynamoItem{
		PK:        pkFavorite,
		SK:        favoriteSK(userID, productID),
		Doc:       productID,
		UserID:    userID,
		CreatedAt: time.Now().Format(time.RFC3339Nano),
	}
	if err := s.putItem(ctx, item, nil); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *DynamoStore) RemoveFavorite(ctx context.Context, userID, productID string) error {
	if _, err := s.deleteItem(ctx, pkFavorite, favoriteSK(userID, productID)); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
