package databases

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/config"
)

// go generate: mockery --name DatabaseHelper
// go generate: mockery --name CollectionHelper
// go generate: mockery --name ClientHelper

// Collections of the mongo gateway, one per relational table
const (
	caseName             = "cases"
	firName              = "firs"
	policeStationName    = "police_stations"
	courtName            = "courts"
	userName             = "users"
	caseAssignmentName   = "case_assignments"
	currentCaseStateName = "current_case_states"
	caseStateHistoryName = "case_state_histories"
	auditLogName         = "audit_logs"
	accusedName          = "accused"
	evidenceName         = "evidence"
	witnessName          = "witnesses"
	documentName         = "documents"
	courtSubmissionName  = "court_submissions"
)

// DatabaseHelper contains the collection and client to be used to access the methods
// defined below
type DatabaseHelper interface {
	Collection(name string) CollectionHelper
	Client() ClientHelper
}

// CollectionHelper contains all the methods defined for collections in this project
type CollectionHelper interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) SingleResultHelper
	Find(context.Context, interface{}, ...*options.FindOptions) (CursorHelper, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) error
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) error
	UpdateMany(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (int64, error)
	Aggregate(context.Context, interface{}, ...*options.AggregateOptions) (CursorHelper, error)
	CreateIndexes(context.Context, []mongo.IndexModel) error
}

// SingleResultHelper contains a single method to decode the result
type SingleResultHelper interface {
	Decode(v interface{}) error
}

// CursorHelper drains and releases a cursor
type CursorHelper interface {
	All(ctx context.Context, results interface{}) error
	Close(ctx context.Context) error
}

// ClientHelper defined to help at client creation inside main.go
type ClientHelper interface {
	Database(string) DatabaseHelper
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	// UseTransaction runs fn inside a multi-document transaction. fn must use
	// the session context it is given for every operation.
	UseTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoClient struct {
	cl *mongo.Client
}

type mongoDatabase struct {
	db *mongo.Database
}

type mongoCollection struct {
	coll *mongo.Collection
}

type mongoSingleResult struct {
	sr *mongo.SingleResult
}

type mongoCursor struct {
	cr *mongo.Cursor
}

// NewClient uses the values from the config and returns a mongo client
func NewClient(conf *config.Config) (ClientHelper, error) {
	c, err := mongo.NewClient(options.Client().ApplyURI(conf.DatabaseURL))

	return &mongoClient{cl: c}, err
}

// NewDatabase uses the client from NewClient and sets the database name
func NewDatabase(conf *config.Config, client ClientHelper) DatabaseHelper {
	return client.Database(conf.DatabaseName)
}

// NewMongoGateway builds the document store gateway over db
func NewMongoGateway(db DatabaseHelper) *Gateway {
	return &Gateway{
		Cases:         NewMongoCaseDatabase(db),
		Organizations: NewMongoOrganizationDatabase(db),
		AuditLogs:     NewMongoAuditLogDatabase(db),
		close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

// openMongoGateway connects client and, with AutoMigrate, creates the indexes.
// The client is disconnected when the gateway cannot be returned.
func openMongoGateway(ctx context.Context, client ClientHelper, conf *config.Config) (*Gateway, error) {
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	db := NewDatabase(conf, client)
	if conf.AutoMigrate {
		if err := EnsureMongoIndexes(ctx, db); err != nil {
			if dErr := client.Disconnect(context.WithoutCancel(ctx)); dErr != nil {
				zap.S().Warnw("failed to disconnect mongo client", "error", dErr)
			}
			return nil, err
		}
	}
	return NewMongoGateway(db), nil
}

// EnsureMongoIndexes creates the indexes the gateway queries rely on. The
// partial unique index on openCaseId allows one open assignment per case.
func EnsureMongoIndexes(ctx context.Context, db DatabaseHelper) error {
	indexes := map[string][]mongo.IndexModel{
		caseName: {
			{Keys: bson.D{{Key: "firId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		},
		firName: {
			{Keys: bson.D{{Key: "policeStationId", Value: 1}}},
		},
		caseAssignmentName: {
			{Keys: bson.D{{Key: "caseId", Value: 1}, {Key: "assignedAt", Value: -1}}},
			{
				Keys: bson.D{{Key: "openCaseId", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"openCaseId": bson.M{"$exists": true}}),
			},
		},
		caseStateHistoryName: {
			{Keys: bson.D{{Key: "caseId", Value: 1}, {Key: "changedAt", Value: -1}}},
		},
		auditLogName: {
			{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entityId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		accusedName:         {{Keys: bson.D{{Key: "caseId", Value: 1}}}},
		evidenceName:        {{Keys: bson.D{{Key: "caseId", Value: 1}}}},
		witnessName:         {{Keys: bson.D{{Key: "caseId", Value: 1}}}},
		documentName:        {{Keys: bson.D{{Key: "caseId", Value: 1}}}},
		courtSubmissionName: {{Keys: bson.D{{Key: "caseId", Value: 1}, {Key: "submittedAt", Value: -1}}}},
	}
	for name, idx := range indexes {
		if err := db.Collection(name).CreateIndexes(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (mc *mongoClient) Database(dbName string) DatabaseHelper {
	db := mc.cl.Database(dbName)
	return &mongoDatabase{db: db}
}

func (mc *mongoClient) Connect(ctx context.Context) error {
	return mc.cl.Connect(ctx)
}

func (mc *mongoClient) Disconnect(ctx context.Context) error {
	return mc.cl.Disconnect(ctx)
}

func (mc *mongoClient) UseTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := mc.cl.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	// one attempt only, transient errors are returned to the caller
	if err := session.StartTransaction(); err != nil {
		return err
	}
	sc := mongo.NewSessionContext(ctx, session)
	if err := fn(sc); err != nil {
		if abortErr := session.AbortTransaction(context.WithoutCancel(ctx)); abortErr != nil {
			zap.S().Warnw("failed to abort transaction", "error", abortErr)
		}
		return err
	}
	return session.CommitTransaction(sc)
}

func (md *mongoDatabase) Collection(colName string) CollectionHelper {
	collection := md.db.Collection(colName)
	return &mongoCollection{coll: collection}
}

func (md *mongoDatabase) Client() ClientHelper {
	client := md.db.Client()
	return &mongoClient{cl: client}
}

func (mc *mongoCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResultHelper {
	singleResult := mc.coll.FindOne(ctx, filter, opts...)
	return &mongoSingleResult{sr: singleResult}
}

func (mc *mongoCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (CursorHelper, error) {
	cursor, err := mc.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cr: cursor}, nil
}

func (mc *mongoCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return mc.coll.CountDocuments(ctx, filter, opts...)
}

func (mc *mongoCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) error {
	_, err := mc.coll.InsertOne(ctx, document, opts...)
	return err
}

func (mc *mongoCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := mc.coll.UpdateOne(ctx, filter, update, opts...)
	return err
}

func (mc *mongoCollection) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	res, err := mc.coll.UpdateMany(ctx, filter, update, opts...)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (mc *mongoCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error) {
	cursor, err := mc.coll.Aggregate(ctx, pipeline, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cr: cursor}, nil
}

func (mc *mongoCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := mc.coll.Indexes().CreateMany(ctx, models)
	return err
}

func (sr *mongoSingleResult) Decode(v interface{}) error {
	return sr.sr.Decode(v)
}

func (cr *mongoCursor) All(ctx context.Context, results interface{}) error {
	return cr.cr.All(ctx, results)
}

func (cr *mongoCursor) Close(ctx context.Context) error {
	return cr.cr.Close(ctx)
}

// findAll drains every document matching filter into results
func findAll(ctx context.Context, coll CollectionHelper, filter interface{}, results interface{}, opts ...*options.FindOptions) error {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, results)
}

// translateMongoError maps driver errors onto the package sentinels
func translateMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrConflict, err.Error())
	}
	return err
}
