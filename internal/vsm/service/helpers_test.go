package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/config"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/entity"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMessage struct {
	UserID  string
	Message string
}

// recordingNotifier captures notifications instead of delivering them
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Notify(_ context.Context, userID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{UserID: userID, Message: message})
}

func (n *recordingNotifier) messagesFor(userID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.sent {
		if m.UserID == userID {
			out = append(out, m.Message)
		}
	}
	return out
}

type testEnv struct {
	db         *gorm.DB
	repos      *repository.Repositories
	notifier   *recordingNotifier
	assignment *AssignmentService
	workflow   *WorkflowService
	billing    *BillingService
}

func newTestEnv(t *testing.T, stockPolicy string) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	notifier := &recordingNotifier{}
	billing := NewBillingService(db, repos, notifier, nil)
	return &testEnv{
		db:         db,
		repos:      repos,
		notifier:   notifier,
		assignment: NewAssignmentService(db, repos, notifier),
		workflow:   NewWorkflowService(db, repos, billing, notifier, stockPolicy),
		billing:    billing,
	}
}

func (e *testEnv) reload(t *testing.T, id uint) *entity.ServiceRequest {
	t.Helper()
	req, err := e.repos.Request.FindByID(context.Background(), id)
	require.NoError(t, err)
	return req
}

func (e *testEnv) history(t *testing.T, id uint) []entity.ServiceStatusHistory {
	t.Helper()
	rows, err := e.repos.History.ListByRequest(context.Background(), id)
	require.NoError(t, err)
	return rows
}

// requireKind asserts err is a domain error of kind with exactly msg
func requireKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	require.Equal(t, msg, err.Error())
}

var allowNegative = config.StockPolicyAllowNegative

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
