package mongo

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type conversationDoc struct {
	Id            primitive.ObjectID `bson:"_id,omitempty"`
	PairKey       string             `bson:"pair_key"`
	Participants  []int64            `bson:"participants"`
	LastMessage   string             `bson:"last_message"`
	LastMessageAt time.Time          `bson:"last_message_at"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (d conversationDoc) domain() domain.Conversation {
	return domain.Conversation{
		Id:            d.Id.Hex(),
		Participants:  d.Participants,
		LastMessage:   d.LastMessage,
		LastMessageAt: d.LastMessageAt,
		CreatedAt:     d.CreatedAt,
	}
}

type messageDoc struct {
	Id             primitive.ObjectID `bson:"_id,omitempty"`
	ConversationId primitive.ObjectID `bson:"conversation_id"`
	SenderId       int64              `bson:"sender_id"`
	Text           string             `bson:"text"`
	IsRead         bool               `bson:"is_read"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d messageDoc) domain() domain.ChatMessage {
	return domain.ChatMessage{
		Id:             d.Id.Hex(),
		ConversationId: d.ConversationId.Hex(),
		SenderId:       d.SenderId,
		Text:           d.Text,
		IsRead:         d.IsRead,
		CreatedAt:      d.CreatedAt,
	}
}

// pairKey identifies a 1:1 conversation independently of who started it.
func pairKey(a, b domain.UserId) (string, []int64) {
	ids := []int64{a, b}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return strconv.FormatInt(ids[0], 10) + ":" + strconv.FormatInt(ids[1], 10), ids
}

func objectId(id domain.ConversationId) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.NotFound("Conversation not found")
	}
	return oid, nil
}

// FindOrCreateConversation returns the conversation between a and b, creating
// it on first contact. The upsert on the unique pair key makes concurrent
// calls converge on one document.
func (s *Storage) FindOrCreateConversation(a, b domain.UserId) (domain.Conversation, error) {
	ctx, cancel := timeout()
	defer cancel()

	key, participants := pairKey(a, b)
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{
		"pair_key":        key,
		"participants":    participants,
		"last_message":    "",
		"last_message_at": now,
		"created_at":      now,
	}}

	var doc conversationDoc
	err := s.conversations.FindOneAndUpdate(ctx, bson.M{"pair_key": key}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the upsert race; the other writer's document exists now.
		err = s.conversations.FindOne(ctx, bson.M{"pair_key": key}).Decode(&doc)
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return doc.domain(), nil
}

func (s *Storage) Conversation(id domain.ConversationId) (domain.Conversation, error) {
	oid, err := objectId(id)
	if err != nil {
		return domain.Conversation{}, err
	}
	ctx, cancel := timeout()
	defer cancel()

	var doc conversationDoc
	if err := s.conversations.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return domain.Conversation{}, errors.NotFound("Conversation not found")
		}
		return domain.Conversation{}, fmt.Errorf("failed to load conversation: %w", err)
	}
	return doc.domain(), nil
}

// ListConversations returns the user's conversations, latest activity first.
func (s *Storage) ListConversations(userId domain.UserId) ([]domain.Conversation, error) {
	ctx, cancel := timeout()
	defer cancel()

	cur, err := s.conversations.Find(ctx, bson.M{"participants": userId},
		options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer cur.Close(ctx)

	conversations := []domain.Conversation{}
	for cur.Next(ctx) {
		var doc conversationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode conversation: %w", err)
		}
		conversations = append(conversations, doc.domain())
	}
	return conversations, cur.Err()
}

// SaveMessage stores the message and bumps the conversation's last activity.
func (s *Storage) SaveMessage(msg domain.ChatMessage) (domain.ChatMessage, error) {
	oid, err := objectId(msg.ConversationId)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	ctx, cancel := timeout()
	defer cancel()

	doc := messageDoc{
		Id:             primitive.NewObjectID(),
		ConversationId: oid,
		SenderId:       msg.SenderId,
		Text:           msg.Text,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := s.messages.InsertOne(ctx, doc); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("failed to insert message: %w", err)
	}
	_, err = s.conversations.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"last_message":    doc.Text,
		"last_message_at": doc.CreatedAt,
	}})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("failed to update conversation: %w", err)
	}
	return doc.domain(), nil
}

// ListMessages returns a page of messages, newest first, and the total count.
func (s *Storage) ListMessages(id domain.ConversationId, page domain.Page) ([]domain.ChatMessage, int, error) {
	oid, err := objectId(id)
	if err != nil {
		return nil, 0, err
	}
	ctx, cancel := timeout()
	defer cancel()

	filter := bson.M{"conversation_id": oid}
	total, err := s.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	cur, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cur.Close(ctx)

	messages := []domain.ChatMessage{}
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, doc.domain())
	}
	return messages, int(total), cur.Err()
}

// MarkRead marks every unread message not sent by readerId as read.
func (s *Storage) MarkRead(id domain.ConversationId, readerId domain.UserId) (int64, error) {
	oid, err := objectId(id)
	if err != nil {
		return 0, err
	}
	ctx, cancel := timeout()
	defer cancel()

	res, err := s.messages.UpdateMany(ctx,
		bson.M{"conversation_id": oid, "sender_id": bson.M{"$ne": readerId}, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return res.ModifiedCount, nil
}
