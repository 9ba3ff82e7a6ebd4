package linking_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grana-sh/grana/internal/apierrors"
	"github.com/grana-sh/grana/internal/linking"
	"github.com/grana-sh/grana/internal/types"
	. "github.com/onsi/gomega"
)

type fakeStore struct {
	accounts      map[uuid.UUID]*types.UserAccount
	verifications map[uuid.UUID]*types.OtpVerification
	createdAt     func() time.Time
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{
		accounts:      make(map[uuid.UUID]*types.UserAccount),
		verifications: make(map[uuid.UUID]*types.OtpVerification),
		createdAt:     now,
	}
}

func (s *fakeStore) addAccount() uuid.UUID {
	id := uuid.New()
	s.accounts[id] = &types.UserAccount{ID: id}
	return id
}

func (s *fakeStore) GetAccountByID(_ context.Context, id uuid.UUID) (*types.UserAccount, error) {
	if account, ok := s.accounts[id]; ok {
		return account, nil
	}
	return nil, apierrors.ErrNotFound
}

func (s *fakeStore) GetAccountByChannelAddress(_ context.Context, addr string) (*types.UserAccount, error) {
	for _, account := range s.accounts {
		if account.ChannelAddress != nil && *account.ChannelAddress == addr {
			return account, nil
		}
	}
	return nil, apierrors.ErrNotFound
}

func (s *fakeStore) CountRequestsSince(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	count := 0
	for _, v := range s.verifications {
		if v.UserAccountID == userID && !v.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) CreateVerification(_ context.Context, v *types.OtpVerification) error {
	v.ID = uuid.New()
	v.CreatedAt = s.createdAt()
	stored := *v
	s.verifications[v.ID] = &stored
	return nil
}

func (s *fakeStore) GetLatestPendingVerification(
	_ context.Context,
	userID uuid.UUID,
	phoneNumber string,
) (*types.OtpVerification, error) {
	var pending []*types.OtpVerification
	for _, v := range s.verifications {
		if v.UserAccountID == userID && v.PhoneNumber == phoneNumber && !v.Verified {
			pending = append(pending, v)
		}
	}
	if len(pending) == 0 {
		return nil, apierrors.ErrNotFound
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	result := *pending[0]
	return &result, nil
}

func (s *fakeStore) IncrementAttempts(_ context.Context, id uuid.UUID) error {
	v, ok := s.verifications[id]
	if !ok {
		return apierrors.ErrNotFound
	}
	v.Attempts++
	return nil
}

func (s *fakeStore) FinalizeLink(_ context.Context, verificationID, userID uuid.UUID, addr string) error {
	v, ok := s.verifications[verificationID]
	if !ok || v.Verified {
		return apierrors.ErrNotFound
	}
	account, ok := s.accounts[userID]
	if !ok {
		return apierrors.ErrNotFound
	}
	v.Verified = true
	account.ChannelAddress = &addr
	return nil
}

func (s *fakeStore) SetChannelAddress(_ context.Context, userID uuid.UUID, addr *string) error {
	account, ok := s.accounts[userID]
	if !ok {
		return apierrors.ErrNotFound
	}
	account.ChannelAddress = addr
	return nil
}

type fakeMessenger struct {
	sent []string
	err  error
}

func (m *fakeMessenger) SendText(_ context.Context, _, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, text)
	return nil
}

func (s *fakeStore) latestCodeFor(userID uuid.UUID) string {
	var latest *types.OtpVerification
	for _, v := range s.verifications {
		if v.UserAccountID == userID && (latest == nil || v.CreatedAt.After(latest.CreatedAt)) {
			latest = v
		}
	}
	if latest == nil {
		return ""
	}
	return latest.Code
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService() (*linking.Service, *fakeStore, *fakeMessenger, *testClock) {
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := newFakeStore(clock.Now)
	messenger := &fakeMessenger{}
	service := linking.NewService(store, messenger).WithNow(clock.Now)
	return service, store, messenger, clock
}

const testPhone = "(84) 98899-2141"

func TestRequestCode(t *testing.T) {
	g := NewWithT(t)
	service, store, messenger, _ := newTestService()
	userID := store.addAccount()

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
	g.Expect(messenger.sent).To(HaveLen(1))
	g.Expect(messenger.sent[0]).To(ContainSubstring(store.latestCodeFor(userID)))
	g.Expect(store.verifications).To(HaveLen(1))
	for _, v := range store.verifications {
		g.Expect(v.PhoneNumber).To(Equal("5584988992141"))
		g.Expect(v.Verified).To(BeFalse())
		g.Expect(v.Attempts).To(BeZero())
	}
}

func TestRequestCode_InvalidPhone(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()

	err := service.RequestCode(context.Background(), userID, "123")
	g.Expect(errors.Is(err, apierrors.ErrInvalidPhone)).To(BeTrue())
	g.Expect(store.verifications).To(BeEmpty())
}

func TestRequestCode_PhoneAlreadyLinked(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()
	otherID := store.addAccount()

	addr := "5584988992141@s.whatsapp.net"
	store.accounts[otherID].ChannelAddress = &addr

	err := service.RequestCode(context.Background(), userID, testPhone)
	g.Expect(errors.Is(err, apierrors.ErrPhoneAlreadyLinked)).To(BeTrue())
}

func TestRequestCode_RelinkOwnPhone(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()

	addr := "5584988992141@s.whatsapp.net"
	store.accounts[userID].ChannelAddress = &addr

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
}

func TestRequestCode_RateLimited(t *testing.T) {
	g := NewWithT(t)
	service, store, _, clock := newTestService()
	userID := store.addAccount()

	for range 5 {
		g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
		clock.Advance(time.Minute)
	}

	err := service.RequestCode(context.Background(), userID, testPhone)
	g.Expect(errors.Is(err, apierrors.ErrRateLimited)).To(BeTrue())

	// window is trailing wall-clock: once the oldest request ages out, a new
	// one is admitted again
	clock.Advance(56 * time.Minute)
	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
}

func TestRequestCode_DeliveryFailedKeepsRow(t *testing.T) {
	g := NewWithT(t)
	service, store, messenger, _ := newTestService()
	userID := store.addAccount()

	messenger.err = errors.New("connection refused")
	err := service.RequestCode(context.Background(), userID, testPhone)
	g.Expect(errors.Is(err, apierrors.ErrDeliveryFailed)).To(BeTrue())

	// the row survives, so a verify attempt against it remains possible
	g.Expect(store.verifications).To(HaveLen(1))
	messenger.err = nil
	code := store.latestCodeFor(userID)
	g.Expect(service.VerifyCode(context.Background(), userID, testPhone, code)).To(Succeed())
}

func TestVerifyCode(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
	code := store.latestCodeFor(userID)

	g.Expect(service.VerifyCode(context.Background(), userID, testPhone, "  "+code+"\n")).To(Succeed())

	account := store.accounts[userID]
	g.Expect(account.ChannelAddress).NotTo(BeNil())
	g.Expect(*account.ChannelAddress).To(Equal("5584988992141@s.whatsapp.net"))

	// the row is already verified, so the same inputs now find nothing pending
	err := service.VerifyCode(context.Background(), userID, testPhone, code)
	g.Expect(errors.Is(err, apierrors.ErrNoPendingCode)).To(BeTrue())
}

func TestVerifyCode_NoPendingCode(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()

	err := service.VerifyCode(context.Background(), userID, testPhone, "123456")
	g.Expect(errors.Is(err, apierrors.ErrNoPendingCode)).To(BeTrue())
}

func TestVerifyCode_Expired(t *testing.T) {
	g := NewWithT(t)
	service, store, _, clock := newTestService()
	userID := store.addAccount()

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
	code := store.latestCodeFor(userID)

	clock.Advance(linking.CodeValidFor + time.Second)
	err := service.VerifyCode(context.Background(), userID, testPhone, code)
	g.Expect(errors.Is(err, apierrors.ErrCodeExpired)).To(BeTrue())
}

func TestVerifyCode_IncorrectCode(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())

	err := service.VerifyCode(context.Background(), userID, testPhone, "000000")
	g.Expect(errors.Is(err, apierrors.ErrIncorrectCode)).To(BeTrue())

	// the miss is persisted
	for _, v := range store.verifications {
		g.Expect(v.Attempts).To(Equal(1))
	}
}

func TestVerifyCode_TooManyAttempts(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
	code := store.latestCodeFor(userID)

	for range 3 {
		err := service.VerifyCode(context.Background(), userID, testPhone, "000000")
		g.Expect(errors.Is(err, apierrors.ErrIncorrectCode)).To(BeTrue())
	}

	// the 4th call fails even with the correct code, and still counts
	err := service.VerifyCode(context.Background(), userID, testPhone, code)
	g.Expect(errors.Is(err, apierrors.ErrTooManyAttempts)).To(BeTrue())
	for _, v := range store.verifications {
		g.Expect(v.Attempts).To(Equal(4))
	}
}

func TestVerifyCode_UsesMostRecentPendingRow(t *testing.T) {
	g := NewWithT(t)
	service, store, _, clock := newTestService()
	userID := store.addAccount()

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
	firstCode := store.latestCodeFor(userID)
	clock.Advance(time.Minute)
	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
	secondCode := store.latestCodeFor(userID)

	if firstCode != secondCode {
		err := service.VerifyCode(context.Background(), userID, testPhone, firstCode)
		g.Expect(errors.Is(err, apierrors.ErrIncorrectCode)).To(BeTrue())
	}
	g.Expect(service.VerifyCode(context.Background(), userID, testPhone, secondCode)).To(Succeed())
}

func TestLinkStatusAndUnlink(t *testing.T) {
	g := NewWithT(t)
	service, store, _, _ := newTestService()
	userID := store.addAccount()

	status, err := service.LinkStatus(context.Background(), userID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(status.Linked).To(BeFalse())

	g.Expect(service.RequestCode(context.Background(), userID, testPhone)).To(Succeed())
	code := store.latestCodeFor(userID)
	g.Expect(service.VerifyCode(context.Background(), userID, testPhone, code)).To(Succeed())

	status, err = service.LinkStatus(context.Background(), userID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(status.Linked).To(BeTrue())
	g.Expect(status.Phone).To(Equal("5584988992141"))

	g.Expect(service.Unlink(context.Background(), userID)).To(Succeed())
	status, err = service.LinkStatus(context.Background(), userID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(status.Linked).To(BeFalse())

	// historical rows are retained
	g.Expect(store.verifications).NotTo(BeEmpty())
}
