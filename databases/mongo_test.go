package databases_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/databases"
	"github.com/nyayasankalan/case-api/databases/mocks"
	"github.com/nyayasankalan/case-api/models"
)

func TestNewMongoGateway(t *testing.T) {
	conf := &config.Config{DatabaseURL: "mongodb://127.0.0.1:27017", DatabaseName: "test"}

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)
	gateway := databases.NewMongoGateway(db)

	assert.NotNil(t, gateway.Cases)
	assert.NotNil(t, gateway.Organizations)
	assert.NotNil(t, gateway.AuditLogs)
}

func TestMongoOrganizationDatabase_PoliceStations(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.PoliceStation)
		*arg = append(*arg, models.PoliceStation{ID: "ps-1", Name: "Connaught Place"})
	})
	cursorHelper.On("Close", mock.Anything).Return(nil)
	collectionHelper.On("Find", context.Background(), bson.M{}, mock.Anything).Return(cursorHelper, nil)
	dbHelper.On("Collection", "police_stations").Return(collectionHelper)

	stations, err := databases.NewMongoOrganizationDatabase(dbHelper).PoliceStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "Connaught Place", stations[0].Name)
	cursorHelper.AssertExpectations(t)
}

func TestMongoOrganizationDatabase_CourtsError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("Find", context.Background(), bson.M{}, mock.Anything).Return(nil, errors.New("mocked-error"))
	dbHelper.On("Collection", "courts").Return(collectionHelper)

	courts, err := databases.NewMongoOrganizationDatabase(dbHelper).Courts(context.Background())
	assert.Nil(t, courts)
	assert.EqualError(t, err, "mocked-error")
}

func TestMongoCaseDatabase_FindCaseScope(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	cases := &mocks.CollectionHelper{}
	firs := &mocks.CollectionHelper{}
	states := &mocks.CollectionHelper{}
	caseResult := &mocks.SingleResultHelper{}
	firResult := &mocks.SingleResultHelper{}
	stateResult := &mocks.SingleResultHelper{}
	missingResult := &mocks.SingleResultHelper{}

	caseResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		cs := args.Get(0).(*models.CaseSummary)
		cs.ID = "case-1"
		cs.FIRID = "fir-1"
	})
	firResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*models.FIR).PoliceStationID = "ps-1"
	})
	stateResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*models.CurrentCaseState).CurrentState = models.StateTrialOngoing
	})
	missingResult.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	ctx := context.Background()
	cases.On("FindOne", ctx, bson.M{"_id": "case-1"}).Return(caseResult)
	cases.On("FindOne", ctx, bson.M{"_id": "missing"}).Return(missingResult)
	firs.On("FindOne", ctx, bson.M{"_id": "fir-1"}).Return(firResult)
	states.On("FindOne", ctx, bson.M{"_id": "case-1"}).Return(stateResult)
	dbHelper.On("Collection", "cases").Return(cases)
	dbHelper.On("Collection", "firs").Return(firs)
	dbHelper.On("Collection", "current_case_states").Return(states)

	db := databases.NewMongoCaseDatabase(dbHelper)
	scope, err := db.FindCaseScope(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, "ps-1", scope.PoliceStationID)
	require.NotNil(t, scope.CurrentState)
	assert.Equal(t, models.StateTrialOngoing, *scope.CurrentState)

	_, err = db.FindCaseScope(ctx, "missing")
	assert.ErrorIs(t, err, databases.ErrNotFound)
}

func TestMongoCaseDatabase_WithTxWritesThroughSession(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	clientHelper := &mocks.ClientHelper{}
	assignments := &mocks.CollectionHelper{}
	states := &mocks.CollectionHelper{}
	audit := &mocks.CollectionHelper{}

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	clientHelper.On("UseTransaction", ctx, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	dbHelper.On("Client").Return(clientHelper)
	dbHelper.On("Collection", "case_assignments").Return(assignments)
	dbHelper.On("Collection", "current_case_states").Return(states)
	dbHelper.On("Collection", "audit_logs").Return(audit)

	assignments.On("UpdateMany", ctx,
		bson.M{"caseId": "case-1", "unassignedAt": nil},
		bson.M{"$set": bson.M{"unassignedAt": at}, "$unset": bson.M{"openCaseId": ""}}).
		Return(int64(1), nil)
	assignments.On("InsertOne", ctx, mock.MatchedBy(func(doc interface{}) bool {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return false
		}
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			return false
		}
		return m["openCaseId"] == "case-1" && m["assignedTo"] == "officer-1"
	})).Return(nil)
	states.On("UpdateOne", ctx, bson.M{"_id": "case-1"},
		bson.M{"$set": bson.M{"currentState": models.StateCaseAssigned, "updatedAt": at}}).Return(nil)
	audit.On("InsertOne", ctx, mock.AnythingOfType("*models.AuditLog")).Return(nil)

	err := databases.NewMongoCaseDatabase(dbHelper).WithTx(ctx, func(ctx context.Context, tx databases.CaseTx) error {
		closed, err := tx.CloseOpenAssignments(ctx, "case-1", at)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 1, closed)
		assignment := &models.CaseAssignment{CaseID: "case-1", AssignedTo: "officer-1", AssignedBy: "sho-1", AssignedAt: at}
		if err := tx.CreateAssignment(ctx, assignment); err != nil {
			return err
		}
		assert.NotEmpty(t, assignment.ID)
		if err := tx.UpsertCurrentState(ctx, "case-1", models.StateCaseAssigned, at); err != nil {
			return err
		}
		return tx.InsertAuditLog(ctx, &models.AuditLog{
			UserID: "sho-1", Action: models.AuditActionCaseAssigned, Entity: models.AuditEntityCase, EntityID: "case-1",
		})
	})
	require.NoError(t, err)
	assignments.AssertExpectations(t)
	states.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestMongoCaseDatabase_WithTxDuplicateKeyIsConflict(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	clientHelper := &mocks.ClientHelper{}
	assignments := &mocks.CollectionHelper{}
	ctx := context.Background()

	clientHelper.On("UseTransaction", ctx, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	dbHelper.On("Client").Return(clientHelper)
	dbHelper.On("Collection", "case_assignments").Return(assignments)
	assignments.On("InsertOne", ctx, mock.Anything).
		Return(mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}})

	err := databases.NewMongoCaseDatabase(dbHelper).WithTx(ctx, func(ctx context.Context, tx databases.CaseTx) error {
		return tx.CreateAssignment(ctx, &models.CaseAssignment{CaseID: "case-1", AssignedTo: "officer-1"})
	})
	assert.ErrorIs(t, err, databases.ErrConflict)
}

func TestMongoCaseDatabase_CountByState(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	cases := &mocks.CollectionHelper{}
	states := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}
	ctx := context.Background()

	cases.On("CountDocuments", ctx, bson.M{}).Return(int64(5), nil)
	states.On("Aggregate", ctx, mock.Anything).Return(cursor, nil)
	cursor.On("Close", ctx).Return(nil)
	cursor.On("All", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		rows := reflect.ValueOf(args.Get(1)).Elem()
		for state, total := range map[string]int64{"TRIAL_ONGOING": 2, "DISPOSED": 1} {
			row := reflect.New(rows.Type().Elem()).Elem()
			row.FieldByName("State").SetString(state)
			row.FieldByName("Total").SetInt(total)
			rows.Set(reflect.Append(rows, row))
		}
	})
	dbHelper.On("Collection", "cases").Return(cases)
	dbHelper.On("Collection", "current_case_states").Return(states)

	counts, err := databases.NewMongoCaseDatabase(dbHelper).CountByState(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.CaseState]int64{
		models.StateTrialOngoing:  2,
		models.StateDisposed:      1,
		models.StateFIRRegistered: 2,
	}, counts)
}

func TestEnsureMongoIndexes(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	ctx := context.Background()

	collectionHelper.On("CreateIndexes", ctx, mock.Anything).Return(nil)
	dbHelper.On("Collection", mock.Anything).Return(collectionHelper)

	require.NoError(t, databases.EnsureMongoIndexes(ctx, dbHelper))
	dbHelper.AssertCalled(t, "Collection", "case_assignments")
	dbHelper.AssertCalled(t, "Collection", "audit_logs")
}

// cursorOf returns a cursor that decodes docs into whatever slice All is given
func cursorOf(t *testing.T, docs ...interface{}) *mocks.CursorHelper {
	cur := &mocks.CursorHelper{}
	cur.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		out := reflect.ValueOf(args.Get(1)).Elem()
		for _, d := range docs {
			raw, err := bson.Marshal(d)
			require.NoError(t, err)
			elem := reflect.New(out.Type().Elem())
			require.NoError(t, bson.Unmarshal(raw, elem.Interface()))
			out.Set(reflect.Append(out, elem.Elem()))
		}
	})
	cur.On("Close", mock.Anything).Return(nil)
	return cur
}

func projects(fields bson.M) interface{} {
	return mock.MatchedBy(func(o *options.FindOptions) bool {
		return o != nil && assert.ObjectsAreEqual(fields, o.Projection)
	})
}

func TestMongoCaseDatabase_FindCasesScopedToStation(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	cases := &mocks.CollectionHelper{}
	firs := &mocks.CollectionHelper{}
	stations := &mocks.CollectionHelper{}
	states := &mocks.CollectionHelper{}
	assignments := &mocks.CollectionHelper{}
	users := &mocks.CollectionHelper{}
	ctx := context.Background()

	dbHelper.On("Collection", "cases").Return(cases)
	dbHelper.On("Collection", "firs").Return(firs)
	dbHelper.On("Collection", "police_stations").Return(stations)
	dbHelper.On("Collection", "current_case_states").Return(states)
	dbHelper.On("Collection", "case_assignments").Return(assignments)
	dbHelper.On("Collection", "users").Return(users)

	firs.On("Find", ctx, bson.M{"policeStationId": "ps-a"}, projects(bson.M{"_id": 1})).
		Return(cursorOf(t, bson.M{"_id": "fir-1"}, bson.M{"_id": "fir-2"}), nil)

	query := bson.M{"firId": bson.M{"$in": []string{"fir-1", "fir-2"}}}
	cases.On("CountDocuments", ctx, query).Return(int64(22), nil)
	cases.On("Find", ctx, query, mock.MatchedBy(func(o *options.FindOptions) bool {
		return *o.Skip == 20 && *o.Limit == 20 &&
			assert.ObjectsAreEqual(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, o.Sort)
	})).Return(cursorOf(t,
		bson.M{"_id": "case-2", "firId": "fir-2"},
		bson.M{"_id": "case-1", "firId": "fir-1"},
	), nil)

	firs.On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"fir-2", "fir-1"}}}).Return(cursorOf(t,
		bson.M{"_id": "fir-1", "firNumber": "FIR/2024/001", "policeStationId": "ps-a"},
		bson.M{"_id": "fir-2", "firNumber": "FIR/2024/002", "policeStationId": "ps-a"},
	), nil)
	stations.On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"ps-a", "ps-a"}}}).
		Return(cursorOf(t, bson.M{"_id": "ps-a", "name": "Saket"}), nil)
	states.On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"case-2", "case-1"}}}).
		Return(cursorOf(t, bson.M{"_id": "case-1", "currentState": string(models.StateCaseAssigned)}), nil)
	assignments.On("Find", ctx,
		bson.M{"caseId": bson.M{"$in": []string{"case-2", "case-1"}}, "unassignedAt": nil},
		mock.AnythingOfType("*options.FindOptions")).
		Return(cursorOf(t, bson.M{"_id": "as-1", "caseId": "case-1", "assignedTo": "officer-1", "openCaseId": "case-1"}), nil)
	users.On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"officer-1"}}}, projects(bson.M{"_id": 1, "name": 1})).
		Return(cursorOf(t, bson.M{"_id": "officer-1", "name": "Officer One"}), nil)

	page, total, err := databases.NewMongoCaseDatabase(dbHelper).FindCases(ctx, databases.CaseFilter{
		PoliceStationID: "ps-a", Offset: 20, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 22, total)
	require.Len(t, page, 2)

	assert.Equal(t, "case-2", page[0].ID)
	assert.Equal(t, "FIR/2024/002", page[0].FIR.FIRNumber)
	assert.Equal(t, "Saket", page[0].FIR.PoliceStation.Name)
	assert.Nil(t, page[0].State)
	assert.NotNil(t, page[0].Assignments)
	assert.Empty(t, page[0].Assignments)

	assert.Equal(t, models.StateCaseAssigned, page[1].State.CurrentState)
	require.Len(t, page[1].Assignments, 1)
	assert.Equal(t, "Officer One", page[1].Assignments[0].AssignedUser.Name)
	assert.Empty(t, page[1].Assignments[0].AssignedUser.Email)

	cases.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestMongoCaseDatabase_FindCasesEmptyPage(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	cases := &mocks.CollectionHelper{}
	ctx := context.Background()

	dbHelper.On("Collection", "cases").Return(cases)
	cases.On("CountDocuments", ctx, bson.M{}).Return(int64(3), nil)
	cases.On("Find", ctx, bson.M{}, mock.AnythingOfType("*options.FindOptions")).Return(cursorOf(t), nil)

	page, total, err := databases.NewMongoCaseDatabase(dbHelper).FindCases(ctx, databases.CaseFilter{Offset: 40, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.NotNil(t, page)
	assert.Empty(t, page)
	dbHelper.AssertNotCalled(t, "Collection", "firs")
}

func TestMongoCaseDatabase_FindCase(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collections := map[string]*mocks.CollectionHelper{}
	for _, name := range []string{
		"cases", "firs", "police_stations", "current_case_states", "case_state_histories", "case_assignments",
		"users", "accused", "evidence", "witnesses", "documents", "court_submissions", "courts",
	} {
		collections[name] = &mocks.CollectionHelper{}
		dbHelper.On("Collection", name).Return(collections[name])
	}
	ctx := context.Background()
	byCase := bson.M{"caseId": "case-1"}

	caseResult := &mocks.SingleResultHelper{}
	caseResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		record := args.Get(0).(*models.CaseRecord)
		record.ID = "case-1"
		record.FIRID = "fir-1"
	})
	collections["cases"].On("FindOne", ctx, bson.M{"_id": "case-1"}).Return(caseResult)

	collections["firs"].On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"fir-1"}}}).
		Return(cursorOf(t, bson.M{"_id": "fir-1", "firNumber": "FIR/2024/001", "policeStationId": "ps-a"}), nil)
	collections["police_stations"].On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"ps-a"}}}).
		Return(cursorOf(t, bson.M{"_id": "ps-a", "name": "Saket"}), nil)
	collections["current_case_states"].On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"case-1"}}}).
		Return(cursorOf(t, bson.M{"_id": "case-1", "currentState": string(models.StateTrialOngoing)}), nil)

	history := make([]interface{}, 0, 10)
	for i := 0; i < 10; i++ {
		history = append(history, bson.M{"_id": fmt.Sprintf("h-%d", i), "caseId": "case-1"})
	}
	collections["case_state_histories"].On("Find", ctx, byCase, mock.MatchedBy(func(o *options.FindOptions) bool {
		return o.Limit != nil && *o.Limit == 10 &&
			assert.ObjectsAreEqual(bson.D{{Key: "changedAt", Value: -1}}, o.Sort)
	})).Return(cursorOf(t, history...), nil)

	unassigned := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	collections["case_assignments"].On("Find", ctx, byCase, mock.AnythingOfType("*options.FindOptions")).Return(cursorOf(t,
		bson.M{"_id": "as-2", "caseId": "case-1", "assignedTo": "officer-2", "openCaseId": "case-1"},
		bson.M{"_id": "as-1", "caseId": "case-1", "assignedTo": "officer-1", "unassignedAt": unassigned},
	), nil)
	collections["users"].On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"officer-2", "officer-1"}}},
		projects(bson.M{"_id": 1, "name": 1, "email": 1})).Return(cursorOf(t,
		bson.M{"_id": "officer-1", "name": "Officer One", "email": "one@delhipolice.gov.in"},
		bson.M{"_id": "officer-2", "name": "Officer Two", "email": "two@delhipolice.gov.in"},
	), nil)

	collections["accused"].On("Find", ctx, byCase, mock.Anything).
		Return(cursorOf(t, bson.M{"_id": "acc-1", "caseId": "case-1", "name": "Ramesh"}), nil)
	for _, name := range []string{"evidence", "witnesses", "documents"} {
		collections[name].On("Find", ctx, byCase, mock.Anything).Return(cursorOf(t), nil)
	}
	collections["court_submissions"].On("Find", ctx, byCase, mock.Anything).
		Return(cursorOf(t, bson.M{"_id": "cs-1", "caseId": "case-1", "courtId": "court-1", "status": "PENDING"}), nil)
	collections["courts"].On("Find", ctx, bson.M{"_id": bson.M{"$in": []string{"court-1"}}}).
		Return(cursorOf(t, bson.M{"_id": "court-1", "name": "Saket District Court"}), nil)

	record, err := databases.NewMongoCaseDatabase(dbHelper).FindCase(ctx, "case-1")
	require.NoError(t, err)

	assert.Equal(t, "FIR/2024/001", record.FIR.FIRNumber)
	assert.Equal(t, "Saket", record.FIR.PoliceStation.Name)
	assert.Equal(t, models.StateTrialOngoing, record.State.CurrentState)
	assert.Len(t, record.StateHistory, 10)

	require.Len(t, record.Assignments, 2)
	assert.Equal(t, "two@delhipolice.gov.in", record.Assignments[0].AssignedUser.Email)
	assert.Nil(t, record.Assignments[0].UnassignedAt)
	assert.Equal(t, "Officer One", record.Assignments[1].AssignedUser.Name)
	require.NotNil(t, record.Assignments[1].UnassignedAt)
	assert.True(t, unassigned.Equal(*record.Assignments[1].UnassignedAt))

	require.Len(t, record.Accused, 1)
	assert.Equal(t, "Ramesh", record.Accused[0].Name)
	assert.NotNil(t, record.Evidence)
	assert.Empty(t, record.Evidence)
	require.Len(t, record.CourtSubmissions, 1)
	assert.Equal(t, "Saket District Court", record.CourtSubmissions[0].Court.Name)

	for _, c := range collections {
		c.AssertExpectations(t)
	}
}

func TestMongoCaseDatabase_FindCaseNotFound(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	cases := &mocks.CollectionHelper{}
	missing := &mocks.SingleResultHelper{}
	ctx := context.Background()

	missing.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	cases.On("FindOne", ctx, bson.M{"_id": "missing"}).Return(missing)
	dbHelper.On("Collection", "cases").Return(cases)

	record, err := databases.NewMongoCaseDatabase(dbHelper).FindCase(ctx, "missing")
	assert.Nil(t, record)
	assert.ErrorIs(t, err, databases.ErrNotFound)
}

func TestMongoAuditLogDatabase_FindByEntityPages(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	audit := &mocks.CollectionHelper{}
	ctx := context.Background()

	filter := bson.M{"entity": models.AuditEntityCase, "entityId": "case-1"}
	logs := make([]interface{}, 0, 5)
	for i := 0; i < 5; i++ {
		logs = append(logs, bson.M{"_id": fmt.Sprintf("log-%d", i), "entity": models.AuditEntityCase, "entityId": "case-1"})
	}
	audit.On("CountDocuments", ctx, filter).Return(int64(25), nil)
	audit.On("Find", ctx, filter, mock.MatchedBy(func(o *options.FindOptions) bool {
		return *o.Skip == 20 && *o.Limit == 20 &&
			assert.ObjectsAreEqual(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, o.Sort)
	})).Return(cursorOf(t, logs...), nil)
	dbHelper.On("Collection", "audit_logs").Return(audit)

	page, total, err := databases.NewMongoAuditLogDatabase(dbHelper).FindByEntity(ctx, models.AuditEntityCase, "case-1", 20, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, page, 5)
	assert.Equal(t, "log-0", page[0].ID)
	audit.AssertExpectations(t)
}
