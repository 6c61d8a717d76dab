package services_test

import (
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/repositories"
)

var _ = Describe("MicropostService", func() {
	var (
		e   *env
		ctx context.Context
	)

	BeforeEach(func() {
		e = newEnv()
		ctx = context.Background()
	})

	It("publica e lista no feed, mais recentes primeiro", func() {
		user := e.activeUser("Author", "author@example.com")

		var ids []string
		for _, content := range []string{"first", "second", "third"} {
			post, err := e.microposts.CreateMicropost(ctx, user.ID, content)
			Expect(err).NotTo(HaveOccurred())
			ids = append(ids, post.ID)
			e.advance(time.Minute)
		}

		feed, total, err := e.microposts.Feed(ctx, user.ID, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(3)))
		Expect(feed).To(HaveLen(3))
		Expect(feed[0].ID).To(Equal(ids[2]))
		Expect(feed[2].ID).To(Equal(ids[0]))
	})

	It("o feed não inclui microposts de quem o usuário segue", func() {
		user := e.activeUser("Author", "author@example.com")
		other := e.activeUser("Other", "other@example.com")
		Expect(e.users.Follow(ctx, user.ID, other.ID)).To(Succeed())

		_, err := e.microposts.CreateMicropost(ctx, other.ID, "not mine")
		Expect(err).NotTo(HaveOccurred())

		feed, _, err := e.microposts.Feed(ctx, user.ID, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(feed).To(BeEmpty())
	})

	DescribeTable("valida o conteúdo",
		func(content, message string) {
			user := e.activeUser("Author", "author@example.com")

			_, err := e.microposts.CreateMicropost(ctx, user.ID, content)

			verr, ok := domainerrors.AsValidationError(err)
			Expect(ok).To(BeTrue())
			Expect(verr.On("content")).To(ContainElement(message))
		},
		Entry("em branco", "   ", "can't be blank"),
		Entry("longo demais", strings.Repeat("a", 141), "is too long (maximum is 140 characters)"),
	)

	It("rejeita autor inexistente", func() {
		_, err := e.microposts.CreateMicropost(ctx, "missing", "hello")
		Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
	})

	It("só o autor remove o micropost", func() {
		author := e.activeUser("Author", "author@example.com")
		intruder := e.activeUser("Intruder", "intruder@example.com")

		post, err := e.microposts.CreateMicropost(ctx, author.ID, "mine")
		Expect(err).NotTo(HaveOccurred())

		Expect(e.microposts.DeleteMicropost(ctx, intruder.ID, post.ID)).To(MatchError(domainerrors.ErrForbidden))
		Expect(e.microposts.DeleteMicropost(ctx, author.ID, post.ID)).To(Succeed())
		Expect(e.microposts.DeleteMicropost(ctx, author.ID, post.ID)).To(MatchError(domainerrors.ErrMicropostNotFound))
	})
})
