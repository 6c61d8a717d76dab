package services_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/ports/mocks"
	"github.com/rafabene/sample-app/internal/infrastructure/logging"
	"github.com/rafabene/sample-app/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/sample-app/internal/infrastructure/security"
	"github.com/rafabene/sample-app/internal/services"
)

// env reúne os serviços ligados a um SQLite em memória
type env struct {
	db         *gorm.DB
	mailer     *mocks.MockMailer
	users      *services.UserService
	microposts *services.MicropostService
	now        time.Time
}

func newEnv() *env {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	Expect(err).NotTo(HaveOccurred())

	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	DeferCleanup(sqlDB.Close)

	Expect(postgres.Migrate(db)).To(Succeed())

	e := &env{
		db:     db,
		mailer: mocks.NewMockMailer(gomock.NewController(GinkgoT())),
		now:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := services.WithClock(func() time.Time { return e.now })

	userRepo := postgres.NewUserRepository(db)
	micropostRepo := postgres.NewMicropostRepository(db)

	e.users = services.NewUserService(
		userRepo,
		postgres.NewRelationshipRepository(db),
		micropostRepo,
		postgres.NewUnitOfWork(db),
		security.NewBcryptDigester(bcrypt.MinCost),
		security.NewToken,
		e.mailer,
		logging.Nop(),
		clock,
	)
	e.microposts = services.NewMicropostService(micropostRepo, userRepo, logging.Nop(), clock)
	return e
}

func (e *env) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// signUp cadastra um usuário esperando exatamente um email de ativação
func (e *env) signUp(name, email string) *entities.User {
	e.mailer.EXPECT().SendAccountActivation(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	user, err := e.users.CreateUser(context.Background(), services.CreateUserInput{
		Name:                 name,
		Email:                email,
		Password:             "foobar",
		PasswordConfirmation: "foobar",
	})
	Expect(err).NotTo(HaveOccurred())
	return user
}

// activeUser cadastra e ativa um usuário
func (e *env) activeUser(name, email string) *entities.User {
	user := e.signUp(name, email)
	Expect(e.users.Activate(context.Background(), user)).To(Succeed())
	return user
}
