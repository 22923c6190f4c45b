package databases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nyayasankalan/case-api/models"
)

// mongoAssignment carries openCaseId while the assignment is open so the partial
// unique index can hold one open assignment per case
type mongoAssignment struct {
	models.CaseAssignment `bson:",inline"`
	OpenCaseID            string `bson:"openCaseId,omitempty"`
}

type mongoCaseDatabase struct {
	db DatabaseHelper
}

// NewMongoCaseDatabase initializes the document store case database with the provided db connection
func NewMongoCaseDatabase(db DatabaseHelper) CaseDatabase {
	return &mongoCaseDatabase{
		db: db,
	}
}

func (c *mongoCaseDatabase) FindCase(ctx context.Context, caseID string) (*models.CaseRecord, error) {
	record := &models.CaseRecord{}
	if err := c.db.Collection(caseName).FindOne(ctx, bson.M{"_id": caseID}).Decode(record); err != nil {
		return nil, translateMongoError(err)
	}

	fir, err := c.findFIR(ctx, record.FIRID)
	if err != nil {
		return nil, err
	}
	record.FIR = fir

	states, err := c.findStates(ctx, []string{caseID})
	if err != nil {
		return nil, err
	}
	record.State = states[caseID]

	byCase := bson.M{"caseId": caseID}
	record.StateHistory = []models.CaseStateHistory{}
	if err := findAll(ctx, c.db.Collection(caseStateHistoryName), byCase, &record.StateHistory,
		options.Find().SetSort(bson.D{{Key: "changedAt", Value: -1}}).SetLimit(recentHistoryLimit)); err != nil {
		return nil, err
	}

	assignments, err := c.findAssignments(ctx, byCase, bson.M{"_id": 1, "name": 1, "email": 1})
	if err != nil {
		return nil, err
	}
	record.Assignments = assignments

	oldestFirst := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	record.Accused = []models.Accused{}
	record.Evidence = []models.Evidence{}
	record.Witnesses = []models.Witness{}
	record.Documents = []models.Document{}
	for name, results := range map[string]interface{}{
		accusedName:  &record.Accused,
		evidenceName: &record.Evidence,
		witnessName:  &record.Witnesses,
		documentName: &record.Documents,
	} {
		if err := findAll(ctx, c.db.Collection(name), byCase, results, oldestFirst); err != nil {
			return nil, err
		}
	}

	record.CourtSubmissions = []models.CourtSubmission{}
	if err := findAll(ctx, c.db.Collection(courtSubmissionName), byCase, &record.CourtSubmissions,
		options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})); err != nil {
		return nil, err
	}
	if err := c.attachCourts(ctx, record.CourtSubmissions); err != nil {
		return nil, err
	}

	return record, nil
}

func (c *mongoCaseDatabase) FindCases(ctx context.Context, filter CaseFilter) ([]models.CaseSummary, int64, error) {
	query := bson.M{}
	if filter.PoliceStationID != "" {
		var firs []models.FIR
		if err := findAll(ctx, c.db.Collection(firName), bson.M{"policeStationId": filter.PoliceStationID}, &firs,
			options.Find().SetProjection(bson.M{"_id": 1})); err != nil {
			return nil, 0, err
		}
		ids := make([]string, 0, len(firs))
		for _, f := range firs {
			ids = append(ids, f.ID)
		}
		query["firId"] = bson.M{"$in": ids}
	}

	total, err := c.db.Collection(caseName).CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cases := []models.CaseSummary{}
	opts := newMongoPage(filter.Offset, filter.Limit).newestFirst("createdAt")
	if err := findAll(ctx, c.db.Collection(caseName), query, &cases, opts); err != nil {
		return nil, 0, err
	}
	if len(cases) == 0 {
		return cases, total, nil
	}

	caseIDs := make([]string, 0, len(cases))
	firIDs := make([]string, 0, len(cases))
	for _, cs := range cases {
		caseIDs = append(caseIDs, cs.ID)
		firIDs = append(firIDs, cs.FIRID)
	}

	firs, err := c.findFIRs(ctx, firIDs)
	if err != nil {
		return nil, 0, err
	}
	states, err := c.findStates(ctx, caseIDs)
	if err != nil {
		return nil, 0, err
	}
	open, err := c.findAssignments(ctx,
		bson.M{"caseId": bson.M{"$in": caseIDs}, "unassignedAt": nil},
		bson.M{"_id": 1, "name": 1})
	if err != nil {
		return nil, 0, err
	}
	openByCase := make(map[string][]models.CaseAssignment, len(open))
	for _, a := range open {
		openByCase[a.CaseID] = append(openByCase[a.CaseID], a)
	}

	for i := range cases {
		cases[i].FIR = firs[cases[i].FIRID]
		cases[i].State = states[cases[i].ID]
		cases[i].Assignments = openByCase[cases[i].ID]
		if cases[i].Assignments == nil {
			cases[i].Assignments = []models.CaseAssignment{}
		}
	}
	return cases, total, nil
}

func (c *mongoCaseDatabase) FindCaseScope(ctx context.Context, caseID string) (*models.CaseScope, error) {
	return findMongoCaseScope(ctx, c.db, caseID)
}

func (c *mongoCaseDatabase) CountByState(ctx context.Context) (map[models.CaseState]int64, error) {
	total, err := c.db.Collection(caseName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	cur, err := c.db.Collection(currentCaseStateName).Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": "$currentState", "total": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		State string `bson:"_id"`
		Total int64  `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.CaseState]int64, len(rows)+1)
	var projected int64
	for _, r := range rows {
		counts[models.CaseState(r.State)] += r.Total
		projected += r.Total
	}
	if implied := total - projected; implied > 0 {
		counts[models.StateFIRRegistered] += implied
	}
	return counts, nil
}

func (c *mongoCaseDatabase) WithTx(ctx context.Context, fn func(ctx context.Context, tx CaseTx) error) error {
	err := c.db.Client().UseTransaction(ctx, func(sc context.Context) error {
		return fn(sc, &mongoCaseTx{db: c.db})
	})
	return translateMongoError(err)
}

func (c *mongoCaseDatabase) findFIR(ctx context.Context, firID string) (*models.FIR, error) {
	firs, err := c.findFIRs(ctx, []string{firID})
	if err != nil {
		return nil, err
	}
	return firs[firID], nil
}

// findFIRs loads the FIRs with their police station, keyed by FIR id
func (c *mongoCaseDatabase) findFIRs(ctx context.Context, ids []string) (map[string]*models.FIR, error) {
	var firs []models.FIR
	if err := findAll(ctx, c.db.Collection(firName), bson.M{"_id": bson.M{"$in": ids}}, &firs); err != nil {
		return nil, err
	}

	stationIDs := make([]string, 0, len(firs))
	for _, f := range firs {
		stationIDs = append(stationIDs, f.PoliceStationID)
	}
	var stations []models.PoliceStation
	if err := findAll(ctx, c.db.Collection(policeStationName), bson.M{"_id": bson.M{"$in": stationIDs}}, &stations); err != nil {
		return nil, err
	}
	stationByID := make(map[string]*models.PoliceStation, len(stations))
	for i := range stations {
		stationByID[stations[i].ID] = &stations[i]
	}

	out := make(map[string]*models.FIR, len(firs))
	for i := range firs {
		firs[i].PoliceStation = stationByID[firs[i].PoliceStationID]
		out[firs[i].ID] = &firs[i]
	}
	return out, nil
}

func (c *mongoCaseDatabase) findStates(ctx context.Context, caseIDs []string) (map[string]*models.CurrentCaseState, error) {
	var states []models.CurrentCaseState
	if err := findAll(ctx, c.db.Collection(currentCaseStateName), bson.M{"_id": bson.M{"$in": caseIDs}}, &states); err != nil {
		return nil, err
	}
	out := make(map[string]*models.CurrentCaseState, len(states))
	for i := range states {
		out[states[i].CaseID] = &states[i]
	}
	return out, nil
}

// findAssignments loads assignments newest first with the assignee projected
// through userFields
func (c *mongoCaseDatabase) findAssignments(ctx context.Context, filter bson.M, userFields bson.M) ([]models.CaseAssignment, error) {
	var docs []mongoAssignment
	if err := findAll(ctx, c.db.Collection(caseAssignmentName), filter, &docs,
		options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})); err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		userIDs = append(userIDs, d.AssignedTo)
	}
	var users []models.UserSummary
	if len(userIDs) > 0 {
		if err := findAll(ctx, c.db.Collection(userName), bson.M{"_id": bson.M{"$in": userIDs}}, &users,
			options.Find().SetProjection(userFields)); err != nil {
			return nil, err
		}
	}
	userByID := make(map[string]*models.UserSummary, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	out := make([]models.CaseAssignment, 0, len(docs))
	for _, d := range docs {
		a := d.CaseAssignment
		a.AssignedUser = userByID[a.AssignedTo]
		out = append(out, a)
	}
	return out, nil
}

func (c *mongoCaseDatabase) attachCourts(ctx context.Context, submissions []models.CourtSubmission) error {
	if len(submissions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(submissions))
	for _, s := range submissions {
		ids = append(ids, s.CourtID)
	}
	var courts []models.Court
	if err := findAll(ctx, c.db.Collection(courtName), bson.M{"_id": bson.M{"$in": ids}}, &courts); err != nil {
		return err
	}
	byID := make(map[string]*models.Court, len(courts))
	for i := range courts {
		byID[courts[i].ID] = &courts[i]
	}
	for i := range submissions {
		submissions[i].Court = byID[submissions[i].CourtID]
	}
	return nil
}

// mongoCaseTx runs the workflow writes with the session context handed out by
// UseTransaction
type mongoCaseTx struct {
	db DatabaseHelper
}

func (t *mongoCaseTx) FindCaseScope(ctx context.Context, caseID string) (*models.CaseScope, error) {
	return findMongoCaseScope(ctx, t.db, caseID)
}

func (t *mongoCaseTx) FindUser(ctx context.Context, userID string) (*models.UserSummary, error) {
	user := &models.UserSummary{}
	err := t.db.Collection(userName).
		FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"_id": 1, "name": 1, "email": 1})).
		Decode(user)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return user, nil
}

func (t *mongoCaseTx) CloseOpenAssignments(ctx context.Context, caseID string, at time.Time) (int64, error) {
	n, err := t.db.Collection(caseAssignmentName).UpdateMany(ctx,
		bson.M{"caseId": caseID, "unassignedAt": nil},
		bson.M{"$set": bson.M{"unassignedAt": at}, "$unset": bson.M{"openCaseId": ""}})
	return n, translateMongoError(err)
}

func (t *mongoCaseTx) CreateAssignment(ctx context.Context, assignment *models.CaseAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	doc := mongoAssignment{CaseAssignment: *assignment}
	if assignment.UnassignedAt == nil {
		doc.OpenCaseID = assignment.CaseID
	}
	return translateMongoError(t.db.Collection(caseAssignmentName).InsertOne(ctx, doc))
}

func (t *mongoCaseTx) UpsertCurrentState(ctx context.Context, caseID string, state models.CaseState, at time.Time) error {
	err := t.db.Collection(currentCaseStateName).UpdateOne(ctx,
		bson.M{"_id": caseID},
		bson.M{"$set": bson.M{"currentState": state, "updatedAt": at}},
		options.Update().SetUpsert(true))
	return translateMongoError(err)
}

func (t *mongoCaseTx) AppendStateHistory(ctx context.Context, entry *models.CaseStateHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return translateMongoError(t.db.Collection(caseStateHistoryName).InsertOne(ctx, entry))
}

func (t *mongoCaseTx) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return translateMongoError(t.db.Collection(auditLogName).InsertOne(ctx, entry))
}

func findMongoCaseScope(ctx context.Context, db DatabaseHelper, caseID string) (*models.CaseScope, error) {
	cs := &models.CaseSummary{}
	if err := db.Collection(caseName).FindOne(ctx, bson.M{"_id": caseID}).Decode(cs); err != nil {
		return nil, translateMongoError(err)
	}
	fir := &models.FIR{}
	if err := db.Collection(firName).FindOne(ctx, bson.M{"_id": cs.FIRID}).Decode(fir); err != nil {
		return nil, translateMongoError(err)
	}

	scope := &models.CaseScope{CaseID: cs.ID, PoliceStationID: fir.PoliceStationID}
	state := &models.CurrentCaseState{}
	err := db.Collection(currentCaseStateName).FindOne(ctx, bson.M{"_id": caseID}).Decode(state)
	switch translateMongoError(err) {
	case nil:
		scope.CurrentState = &state.CurrentState
	case ErrNotFound:
	default:
		return nil, err
	}
	return scope, nil
}
