package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"onlinecourse/cmd/seed_initial_data/internal/seedmodels"
	"onlinecourse/internal/adapter/storage"
	"onlinecourse/internal/config"
	"onlinecourse/internal/database"
	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/repository"
	"onlinecourse/internal/service"
	"onlinecourse/internal/util"
	"onlinecourse/internal/validation"

	_ "github.com/godror/godror" // db.driver: godror
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSeedFile = "configs/seed_data/initial_courses.json"
	// passwordEnv supplies the staff password; it is only needed when the account does not exist yet.
	passwordEnv = "SEED_STAFF_PASSWORD"
)

type seeder struct {
	accounts    domain.AccountRepository
	instructors domain.InstructorRepository
	tx          domain.TransactionManager
	admin       service.AdminService
	log         *zap.Logger
}

func main() {
	seedFile := flag.String("file", defaultSeedFile, "path to the JSON seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...", zap.String("file", *seedFile))
	data, err := seedmodels.Load(*seedFile)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	media, err := storage.NewMediaStorage(cfg.Media)
	if err != nil {
		log.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	txManager := repository.NewTransactionManagerAdapter(db)
	repos := service.AdminRepositories{
		Accounts:    repository.NewSQLXAccountRepository(db),
		Courses:     repository.NewSQLXCourseRepository(db),
		Lessons:     repository.NewSQLXLessonRepository(db),
		Questions:   repository.NewSQLXQuestionRepository(db),
		Choices:     repository.NewSQLXChoiceRepository(db),
		Submissions: repository.NewSQLXSubmissionRepository(db),
		Instructors: repository.NewSQLXInstructorRepository(db),
		Learners:    repository.NewSQLXLearnerRepository(db),
		Enrollments: repository.NewSQLXEnrollmentRepository(db),
	}
	s := &seeder{
		accounts:    repos.Accounts,
		instructors: repos.Instructors,
		tx:          txManager,
		admin:       service.NewAdminService(repos, txManager, media, nil, validation.NewValidator()),
		log:         log,
	}

	staff, instructorID, err := s.ensureStaff(ctx, data.Staff)
	if err != nil {
		log.Fatal("Failed to prepare staff account", zap.Error(err))
	}

	created := 0
	for _, sc := range data.Courses {
		ok, err := s.seedCourse(ctx, staff, instructorID, sc)
		if err != nil {
			// Each course is its own transaction; keep going with the rest.
			log.Error("Error seeding course", zap.String("course", sc.Name), zap.Error(err))
			continue
		}
		if ok {
			created++
		}
	}
	log.Info("Initial data seeding process completed.", zap.Int("courses_created", created), zap.Int("courses_in_file", len(data.Courses)))
}

// ensureStaff returns the staff identity and its instructor profile id, creating both when missing.
func (s *seeder) ensureStaff(ctx context.Context, st seedmodels.SeedStaff) (*domain.Identity, string, error) {
	var account *domain.Account
	var instructorID string
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accounts.GetByUsername(ctx, st.Username)
		if err != nil {
			return err
		}
		if account == nil {
			password := os.Getenv(passwordEnv)
			if password == "" {
				return fmt.Errorf("%s must be set to create staff account %q", passwordEnv, st.Username)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash staff password: %w", err)
			}
			account = domain.NewAccount(st.Username, st.FirstName, st.LastName)
			account.ID = util.NewULID()
			account.PasswordHash = string(hash)
			account.IsStaff = true
			if err := s.accounts.Create(ctx, account); err != nil {
				return err
			}
			s.log.Info("Created staff account.", zap.String("id", account.ID), zap.String("username", account.Username))
		} else if !account.IsStaff {
			return fmt.Errorf("account %q exists but is not staff", st.Username)
		}

		instructorID, err = s.findInstructor(ctx, account.ID)
		if err != nil || instructorID != "" {
			return err
		}
		instructor := &domain.Instructor{ID: util.NewULID(), AccountID: account.ID, FullTime: true}
		if err := s.instructors.Create(ctx, instructor); err != nil {
			return err
		}
		instructorID = instructor.ID
		s.log.Info("Created instructor profile.", zap.String("id", instructorID))
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return account.Identity(), instructorID, nil
}

func (s *seeder) findInstructor(ctx context.Context, accountID string) (string, error) {
	for page := domain.NewPage(1, domain.MaxPageSize); ; page.Number++ {
		items, total, err := s.instructors.List(ctx, page)
		if err != nil {
			return "", err
		}
		for _, in := range items {
			if in.AccountID == accountID {
				return in.ID, nil
			}
		}
		if page.Number*page.Size >= total || len(items) == 0 {
			return "", nil
		}
	}
}

// seedCourse creates the course with its lessons and exam unless a course with the same name exists.
func (s *seeder) seedCourse(ctx context.Context, staff *domain.Identity, instructorID string, sc seedmodels.SeedCourse) (bool, error) {
	existing, err := s.admin.ListCourses(ctx, staff, service.CourseListQuery{Search: sc.Name}, domain.NewPage(1, domain.MaxPageSize))
	if err != nil {
		return false, err
	}
	for _, c := range existing.Items {
		if c.Name == sc.Name {
			s.log.Info("Course exists, skipping.", zap.String("id", c.ID), zap.String("name", c.Name))
			return false, nil
		}
	}

	req := dto.CourseRequest{
		Name:          sc.Name,
		Description:   sc.Description,
		PubDate:       sc.PubDate,
		InstructorIDs: []string{instructorID},
	}
	for _, l := range sc.Lessons {
		req.Lessons = append(req.Lessons, dto.LessonInline{Title: l.Title, Order: l.Order, Content: l.Content})
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.admin.CreateCourse(ctx, staff, req)
		if err != nil {
			return err
		}
		for _, sq := range sc.Questions {
			q := dto.QuestionRequest{CourseID: course.ID, Text: sq.Text, Grade: sq.Grade}
			for _, ch := range sq.Choices {
				q.Choices = append(q.Choices, dto.ChoiceInline{Text: ch.Text, IsCorrect: ch.IsCorrect})
			}
			if _, err := s.admin.CreateQuestion(ctx, staff, q); err != nil {
				return err
			}
		}
		s.log.Info("Created course.", zap.String("id", course.ID), zap.String("name", course.Name),
			zap.Int("lessons", len(course.Lessons)), zap.Int("questions", len(sc.Questions)))
		return nil
	})
	return err == nil, err
}
