package usecase

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"contacthub-backend/internal/command"
	"contacthub-backend/internal/contact/domain"
	"contacthub-backend/internal/contact/dto"
	"contacthub-backend/internal/contact/repository"
	"contacthub-backend/pkg/fuzzy"

	"github.com/google/uuid"
)

// SourceManual is the source of contacts entered through the API
const SourceManual = "manual"

const defaultSearchLimit = 50

// contactUsecase implements ContactUsecase interface
type contactUsecase struct {
	contactRepo repository.ContactRepository
	commands    *command.Manager
	logger      *slog.Logger
}

// NewContactUsecase creates a new instance of contactUsecase
func NewContactUsecase(contactRepo repository.ContactRepository, commands *command.Manager) ContactUsecase {
	return &contactUsecase{
		contactRepo: contactRepo,
		commands:    commands,
		logger:      slog.Default().With("component", "ContactUsecase"),
	}
}

func (u *contactUsecase) ListContacts(query string, limit int) ([]*domain.Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return u.contactRepo.List()
	}
	return u.search(query, limit)
}

type scoredContact struct {
	contact *domain.Contact
	score   float64
}

// search ranks substring hits from the database together with typo-tolerant
// matches found by scanning the remaining contacts.
func (u *contactUsecase) search(query string, limit int) ([]*domain.Contact, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits, err := u.contactRepo.Search(query, 0)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	seen := make(map[string]bool, len(hits))
	matched := make([]scoredContact, 0, len(hits))
	for _, c := range hits {
		seen[c.ID] = true
		matched = append(matched, scoredContact{c, fuzzy.CalculateRelevanceScore(query, c.FirstName, c.LastName, c.Email)})
	}

	if len(matched) < limit {
		all, err := u.contactRepo.List()
		if err != nil {
			return nil, fmt.Errorf("list contacts: %w", err)
		}
		for _, c := range all {
			if seen[c.ID] || !fuzzy.MatchContact(query, c.FirstName, c.LastName, c.Email) {
				continue
			}
			score := fuzzy.CalculateRelevanceScore(query, c.FirstName, c.LastName, c.Email)
			if score > 0 {
				matched = append(matched, scoredContact{c, score})
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	contacts := make([]*domain.Contact, 0, len(matched))
	for _, m := range matched {
		contacts = append(contacts, m.contact)
	}
	return contacts, nil
}

func (u *contactUsecase) GetContact(id string) (*domain.Contact, error) {
	contact, err := u.contactRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.Deleted {
		return nil, fmt.Errorf("%w: %s", domain.ErrContactNotFound, id)
	}
	return contact, nil
}

func (u *contactUsecase) CreateContact(req *dto.CreateContactRequest) (*domain.Contact, error) {
	metadata, err := domain.NewMetadata(req.Metadata)
	if err != nil {
		return nil, err
	}

	id := SourceManual + "_" + uuid.New().String()
	contact := &domain.Contact{
		ID:        id,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Source:    SourceManual,
		SourceID:  id,
		Metadata:  metadata,
	}
	if err := u.contactRepo.Create(contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

func (u *contactUsecase) UpdateContact(id string, fields map[string]string) (*domain.Contact, error) {
	if err := u.commands.Execute(command.NewEditCommand(u.contactRepo, id, fields)); err != nil {
		return nil, err
	}
	return u.GetContact(id)
}

func (u *contactUsecase) DeleteContact(id string) error {
	if _, err := u.GetContact(id); err != nil {
		return err
	}
	return u.contactRepo.SoftDelete(id)
}

func (u *contactUsecase) MergeContacts(req *dto.MergeRequest) (*domain.Contact, error) {
	cmd := command.NewMergeCommand(u.contactRepo, req.SourceID, req.TargetID, req.MergedData)
	if err := u.commands.Execute(cmd); err != nil {
		return nil, err
	}
	u.logger.Info("contacts merged", "source_id", req.SourceID, "target_id", req.TargetID)
	return u.GetContact(req.TargetID)
}

func (u *contactUsecase) Undo() (*dto.HistoryActionResponse, error) {
	ok, err := u.commands.Undo()
	if err != nil {
		return nil, err
	}
	return u.historyState(ok), nil
}

func (u *contactUsecase) Redo() (*dto.HistoryActionResponse, error) {
	ok, err := u.commands.Redo()
	if err != nil {
		return nil, err
	}
	return u.historyState(ok), nil
}

func (u *contactUsecase) History() *dto.HistoryResponse {
	entries, state := u.commands.Snapshot()
	return &dto.HistoryResponse{
		Entries:               entries,
		HistoryActionResponse: *toHistoryAction(true, state),
	}
}

func (u *contactUsecase) historyState(success bool) *dto.HistoryActionResponse {
	return toHistoryAction(success, u.commands.State())
}

func toHistoryAction(success bool, state command.State) *dto.HistoryActionResponse {
	return &dto.HistoryActionResponse{
		Success:         success,
		CanUndo:         state.CanUndo,
		CanRedo:         state.CanRedo,
		UndoDescription: state.UndoDescription,
		RedoDescription: state.RedoDescription,
	}
}
