package services_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/rafabene/sample-app/internal/domain/entities"
	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/repositories"
	"github.com/rafabene/sample-app/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/sample-app/internal/services"
)

var _ = Describe("UserService", func() {
	var (
		e   *env
		ctx context.Context
	)

	BeforeEach(func() {
		e = newEnv()
		ctx = context.Background()
	})

	countUsers := func() int64 {
		var n int64
		Expect(e.db.Model(&postgres.UserModel{}).Count(&n).Error).To(Succeed())
		return n
	}

	validationFields := func(err error) map[string][]string {
		verr, ok := domainerrors.AsValidationError(err)
		Expect(ok).To(BeTrue(), "expected a validation error, got %v", err)
		return verr.Fields
	}

	Describe("CreateUser", func() {
		It("cria um usuário não ativado e envia o email de ativação", func() {
			var mailedToken string
			e.mailer.EXPECT().
				SendAccountActivation(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *entities.User, token string) error {
					mailedToken = token
					return nil
				})

			user, err := e.users.CreateUser(ctx, services.CreateUserInput{
				Name:                 "Example User",
				Email:                "Foo@ExAMPle.CoM",
				Password:             "foobar",
				PasswordConfirmation: "foobar",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).NotTo(BeEmpty())
			Expect(user.Email.String()).To(Equal("foo@example.com"))
			Expect(user.Activated).To(BeFalse())
			Expect(user.Admin).To(BeFalse())
			Expect(user.ActivationToken).To(HaveLen(22))
			Expect(mailedToken).To(Equal(user.ActivationToken))
			Expect(e.users.Authenticated(user, entities.TokenActivation, user.ActivationToken)).To(BeTrue())

			stored, err := e.users.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.PasswordDigest).NotTo(Equal("foobar"))
			Expect(stored.ActivationToken).To(BeEmpty())
		})

		DescribeTable("rejeita dados inválidos sem gravar nada",
			func(input services.CreateUserInput, field, message string) {
				_, err := e.users.CreateUser(ctx, input)

				Expect(validationFields(err)).To(HaveKeyWithValue(field, ContainElement(message)))
				Expect(countUsers()).To(BeZero())
			},
			Entry("nome em branco",
				services.CreateUserInput{Name: "   ", Email: "a@b.com", Password: "foobar", PasswordConfirmation: "foobar"},
				"name", "can't be blank"),
			Entry("nome longo",
				services.CreateUserInput{Name: strings.Repeat("a", 51), Email: "a@b.com", Password: "foobar", PasswordConfirmation: "foobar"},
				"name", "is too long (maximum is 50 characters)"),
			Entry("email inválido",
				services.CreateUserInput{Name: "A", Email: "user@example,com", Password: "foobar", PasswordConfirmation: "foobar"},
				"email", "is invalid"),
			Entry("email longo",
				services.CreateUserInput{Name: "A", Email: strings.Repeat("a", 244) + "@example.com", Password: "foobar", PasswordConfirmation: "foobar"},
				"email", "is too long (maximum is 255 characters)"),
			Entry("senha curta",
				services.CreateUserInput{Name: "A", Email: "a@b.com", Password: "aaaaa", PasswordConfirmation: "aaaaa"},
				"password", "is too short (minimum is 6 characters)"),
			Entry("senha em branco",
				services.CreateUserInput{Name: "A", Email: "a@b.com", Password: "      ", PasswordConfirmation: "      "},
				"password", "can't be blank"),
			Entry("confirmação diferente",
				services.CreateUserInput{Name: "A", Email: "a@b.com", Password: "foobar", PasswordConfirmation: "foobaz"},
				"password_confirmation", "doesn't match Password"),
		)

		It("rejeita email duplicado sem diferenciar maiúsculas", func() {
			e.signUp("First", "dup@example.com")

			_, err := e.users.CreateUser(ctx, services.CreateUserInput{
				Name: "Second", Email: "DUP@EXAMPLE.COM", Password: "foobar", PasswordConfirmation: "foobar",
			})

			Expect(validationFields(err)).To(HaveKeyWithValue("email", ContainElement("has already been taken")))
			Expect(countUsers()).To(Equal(int64(1)))
		})

		It("mantém o cadastro quando o envio de email falha", func() {
			e.mailer.EXPECT().
				SendAccountActivation(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(errors.New("smtp down"))

			user, err := e.users.CreateUser(ctx, services.CreateUserInput{
				Name: "A", Email: "a@b.com", Password: "foobar", PasswordConfirmation: "foobar",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(user).NotTo(BeNil())
			Expect(countUsers()).To(Equal(int64(1)))
		})
	})

	Describe("UpdateUser", func() {
		It("aceita senha em branco e preserva o digest", func() {
			user := e.activeUser("Old Name", "old@example.com")
			digest := user.PasswordDigest
			name := "New Name"

			updated, err := e.users.UpdateUser(ctx, user.ID, services.UpdateUserInput{Name: &name})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("New Name"))
			Expect(updated.PasswordDigest).To(Equal(digest))
		})

		It("troca a senha quando informada", func() {
			user := e.activeUser("User", "user@example.com")

			_, err := e.users.UpdateUser(ctx, user.ID, services.UpdateUserInput{
				Password: "newsecret", PasswordConfirmation: "newsecret",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = e.users.Login(ctx, "user@example.com", "newsecret")
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejeita email de outro usuário", func() {
			e.signUp("Other", "other@example.com")
			user := e.signUp("User", "user@example.com")
			email := "OTHER@example.com"

			_, err := e.users.UpdateUser(ctx, user.ID, services.UpdateUserInput{Email: &email})

			Expect(validationFields(err)).To(HaveKeyWithValue("email", ContainElement("has already been taken")))
		})

		It("retorna not found para usuário inexistente", func() {
			_, err := e.users.UpdateUser(ctx, "missing", services.UpdateUserInput{})
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("tokens", func() {
		It("não autentica sem digest armazenado", func() {
			user := e.signUp("User", "user@example.com")

			Expect(e.users.Authenticated(user, entities.TokenRemember, "")).To(BeFalse())
			Expect(e.users.Authenticated(user, entities.TokenReset, "anything")).To(BeFalse())
		})

		It("lembra e esquece o usuário", func() {
			user := e.activeUser("User", "user@example.com")

			token, err := e.users.Remember(ctx, user)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.users.Authenticated(user, entities.TokenRemember, token)).To(BeTrue())

			remembered, err := e.users.AuthenticateRemembered(ctx, user.ID, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(remembered.ID).To(Equal(user.ID))

			Expect(e.users.Forget(ctx, user)).To(Succeed())
			Expect(e.users.Authenticated(user, entities.TokenRemember, token)).To(BeFalse())

			_, err = e.users.AuthenticateRemembered(ctx, user.ID, token)
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("um novo remember invalida o token anterior", func() {
			user := e.activeUser("User", "user@example.com")

			first, err := e.users.Remember(ctx, user)
			Expect(err).NotTo(HaveOccurred())
			second, err := e.users.Remember(ctx, user)
			Expect(err).NotTo(HaveOccurred())

			stored, err := e.users.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.users.Authenticated(stored, entities.TokenRemember, first)).To(BeFalse())
			Expect(e.users.Authenticated(stored, entities.TokenRemember, second)).To(BeTrue())
		})
	})

	Describe("ativação", func() {
		It("ativa com o token correto e uma única vez", func() {
			user := e.signUp("User", "user@example.com")

			_, err := e.users.ActivateAccount(ctx, "user@example.com", "wrong-token")
			Expect(err).To(MatchError(domainerrors.ErrInvalidToken))

			_, err = e.users.ActivateAccount(ctx, "other@example.com", user.ActivationToken)
			Expect(err).To(MatchError(domainerrors.ErrInvalidToken))

			activated, err := e.users.ActivateAccount(ctx, "USER@example.com", user.ActivationToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(activated.Activated).To(BeTrue())
			Expect(activated.ActivatedAt).NotTo(BeNil())
			Expect(activated.ActivatedAt.Equal(e.now)).To(BeTrue())

			_, err = e.users.ActivateAccount(ctx, "user@example.com", user.ActivationToken)
			Expect(err).To(MatchError(domainerrors.ErrAccountActivated))
		})

		It("Activate é idempotente", func() {
			user := e.activeUser("User", "user@example.com")
			first := *user.ActivatedAt

			e.advance(time.Hour)
			Expect(e.users.Activate(ctx, user)).To(Succeed())
			Expect(user.ActivatedAt.Equal(first)).To(BeTrue())
		})
	})

	Describe("Login", func() {
		It("exige conta ativada e senha correta", func() {
			e.signUp("User", "user@example.com")

			_, err := e.users.Login(ctx, "user@example.com", "foobar")
			Expect(err).To(MatchError(domainerrors.ErrAccountNotActivated))

			_, err = e.users.Login(ctx, "user@example.com", "wrong")
			Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))

			_, err = e.users.Login(ctx, "nobody@example.com", "foobar")
			Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))

			_, err = e.users.Login(ctx, "not-an-email", "foobar")
			Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
		})

		It("autentica usuário ativado", func() {
			user := e.activeUser("User", "user@example.com")

			logged, err := e.users.Login(ctx, "User@Example.com", "foobar")
			Expect(err).NotTo(HaveOccurred())
			Expect(logged.ID).To(Equal(user.ID))
		})
	})

	Describe("redefinição de senha", func() {
		var (
			user       *entities.User
			resetToken string
		)

		BeforeEach(func() {
			user = e.activeUser("User", "user@example.com")
			e.mailer.EXPECT().
				SendPasswordReset(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, u *entities.User, token string) error {
					Expect(u.ID).To(Equal(user.ID))
					resetToken = token
					return nil
				})
			Expect(e.users.RequestPasswordReset(ctx, "user@example.com")).To(Succeed())
		})

		input := func(token, password string) services.ResetPasswordInput {
			return services.ResetPasswordInput{
				Email: "user@example.com", Token: token,
				Password: password, PasswordConfirmation: password,
			}
		}

		It("rejeita email desconhecido", func() {
			err := e.users.RequestPasswordReset(ctx, "nobody@example.com")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("rejeita token errado", func() {
			_, err := e.users.ResetPassword(ctx, input("wrong", "newsecret"))
			Expect(err).To(MatchError(domainerrors.ErrInvalidToken))
		})

		It("rejeita pedido com mais de duas horas", func() {
			e.advance(2*time.Hour + time.Minute)

			_, err := e.users.ResetPassword(ctx, input(resetToken, "newsecret"))
			Expect(err).To(MatchError(domainerrors.ErrPasswordResetExpired))
		})

		It("conta as duas horas a partir do horário exato do pedido", func() {
			e.advance(900 * time.Millisecond)
			e.mailer.EXPECT().
				SendPasswordReset(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *entities.User, token string) error {
					resetToken = token
					return nil
				})
			Expect(e.users.RequestPasswordReset(ctx, "user@example.com")).To(Succeed())

			e.advance(2*time.Hour - 500*time.Millisecond)

			_, err := e.users.ResetPassword(ctx, input(resetToken, "newsecret"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejeita senha em branco", func() {
			_, err := e.users.ResetPassword(ctx, input(resetToken, ""))
			Expect(validationFields(err)).To(HaveKeyWithValue("password", ContainElement("can't be blank")))
		})

		It("troca a senha e limpa o estado de reset", func() {
			updated, err := e.users.ResetPassword(ctx, input(resetToken, "newsecret"))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ResetDigest).To(BeNil())

			stored, err := e.users.GetUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.ResetDigest).To(BeNil())
			Expect(stored.ResetSentAt).To(BeNil())

			_, err = e.users.Login(ctx, "user@example.com", "newsecret")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.users.ResetPassword(ctx, input(resetToken, "another"))
			Expect(err).To(MatchError(domainerrors.ErrInvalidToken))
		})
	})

	Describe("relações", func() {
		var michael, archer *entities.User

		BeforeEach(func() {
			michael = e.activeUser("Michael Example", "michael@example.com")
			archer = e.activeUser("Sterling Archer", "duchess@example.gov")
		})

		It("segue e deixa de seguir", func() {
			following, err := e.users.IsFollowing(ctx, michael.ID, archer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(following).To(BeFalse())

			Expect(e.users.Follow(ctx, michael.ID, archer.ID)).To(Succeed())

			following, err = e.users.IsFollowing(ctx, michael.ID, archer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(following).To(BeTrue())

			followers, err := e.users.Followers(ctx, archer.ID, repositories.Pagination{})
			Expect(err).NotTo(HaveOccurred())
			Expect(followers).To(HaveLen(1))
			Expect(followers[0].ID).To(Equal(michael.ID))

			Expect(e.users.Unfollow(ctx, michael.ID, archer.ID)).To(Succeed())

			following, err = e.users.IsFollowing(ctx, michael.ID, archer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(following).To(BeFalse())
		})

		It("seguir duas vezes mantém uma relação", func() {
			Expect(e.users.Follow(ctx, michael.ID, archer.ID)).To(Succeed())
			Expect(e.users.Follow(ctx, michael.ID, archer.ID)).To(Succeed())

			stats, err := e.users.Stats(ctx, michael.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Following).To(Equal(int64(1)))
		})

		It("não permite seguir a si mesmo", func() {
			Expect(e.users.Follow(ctx, michael.ID, michael.ID)).To(MatchError(domainerrors.ErrSelfFollow))
		})

		It("não permite seguir usuário inexistente", func() {
			Expect(e.users.Follow(ctx, michael.ID, "missing")).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("não permite deixar de seguir usuário inexistente", func() {
			unknown := "00000000-0000-0000-0000-000000000000"
			Expect(e.users.Unfollow(ctx, michael.ID, unknown)).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("deixar de seguir sem relação não tem efeito", func() {
			Expect(e.users.Unfollow(ctx, michael.ID, archer.ID)).To(Succeed())
		})
	})

	Describe("DeleteUser", func() {
		It("remove microposts e relações nas duas direções", func() {
			michael := e.activeUser("Michael", "michael@example.com")
			archer := e.activeUser("Archer", "archer@example.com")

			var before int64
			Expect(e.db.Model(&postgres.MicropostModel{}).Count(&before).Error).To(Succeed())

			_, err := e.microposts.CreateMicropost(ctx, michael.ID, "Lorem ipsum")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.users.Follow(ctx, michael.ID, archer.ID)).To(Succeed())
			Expect(e.users.Follow(ctx, archer.ID, michael.ID)).To(Succeed())

			Expect(e.users.DeleteUser(ctx, michael.ID)).To(Succeed())

			var after int64
			Expect(e.db.Model(&postgres.MicropostModel{}).Count(&after).Error).To(Succeed())
			Expect(after).To(Equal(before))

			stats, err := e.users.Stats(ctx, archer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Followers).To(BeZero())
			Expect(stats.Following).To(BeZero())

			_, err = e.users.GetUser(ctx, michael.ID)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("retorna not found para usuário inexistente", func() {
			Expect(e.users.DeleteUser(ctx, "missing")).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("ListUsers", func() {
		It("filtra usuários ativados", func() {
			e.signUp("Pending", "pending@example.com")
			active := e.activeUser("Active", "active@example.com")

			users, total, err := e.users.ListUsers(ctx, repositories.UserFilters{ActivatedOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(users).To(HaveLen(1))
			Expect(users[0].ID).To(Equal(active.ID))
		})
	})
})
