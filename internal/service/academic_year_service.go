package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
)

// ── 学年模块业务错误 ──

var (
	ErrAcademicYearDateRange   = errors.New("结束日期不能早于开始日期")
	ErrAcademicYearNoDates     = errors.New("学年未设置任何日期，无法导出日历")
	ErrAcademicYearInvalidDate = errors.New("日期格式错误，应为 YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

// AcademicYearService 学年业务接口
type AcademicYearService interface {
	Create(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AcademicYearResponse, error)
	List(ctx context.Context) ([]dto.AcademicYearResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// ExportCalendar 导出学年起止与评教窗口为 iCalendar；返回内容与建议文件名
	ExportCalendar(ctx context.Context, id string) ([]byte, string, error)
}

type academicYearService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAcademicYearService 创建 AcademicYearService 实例
func NewAcademicYearService(repo *repository.Repository, logger *zap.Logger) AcademicYearService {
	return &academicYearService{repo: repo, logger: logger}
}

func (s *academicYearService) Create(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error) {
	year := &model.AcademicYear{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
	}
	var err error
	if year.StartDate, err = parseDate(req.StartDate); err != nil {
		return nil, err
	}
	if year.EndDate, err = parseDate(req.EndDate); err != nil {
		return nil, err
	}
	if year.FeedbackStart, err = parseDate(req.FeedbackStart); err != nil {
		return nil, err
	}
	if year.FeedbackEnd, err = parseDate(req.FeedbackEnd); err != nil {
		return nil, err
	}
	if err := validateYearRanges(year); err != nil {
		return nil, err
	}

	year.CreatedBy = &callerID
	year.UpdatedBy = &callerID

	if err := s.repo.AcademicYear.Create(ctx, year); err != nil {
		s.logger.Error("创建学年失败", zap.Error(err))
		return nil, err
	}
	return toAcademicYearResponse(year), nil
}

func (s *academicYearService) GetByID(ctx context.Context, id string) (*dto.AcademicYearResponse, error) {
	year, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAcademicYearResponse(year), nil
}

func (s *academicYearService) List(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	years, err := s.repo.AcademicYear.List(ctx)
	if err != nil {
		s.logger.Error("列出学年失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AcademicYearResponse, 0, len(years))
	for i := range years {
		result = append(result, *toAcademicYearResponse(&years[i]))
	}
	return result, nil
}

func (s *academicYearService) Update(ctx context.Context, id string, req *dto.UpdateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error) {
	year, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		year.Name = *req.Name
	}
	if req.Abbreviation != nil {
		year.Abbreviation = *req.Abbreviation
	}
	for _, f := range []struct {
		raw *string
		dst **time.Time
	}{
		{req.StartDate, &year.StartDate},
		{req.EndDate, &year.EndDate},
		{req.FeedbackStart, &year.FeedbackStart},
		{req.FeedbackEnd, &year.FeedbackEnd},
	} {
		if f.raw == nil {
			continue
		}
		t, err := parseDate(*f.raw)
		if err != nil {
			return nil, err
		}
		*f.dst = t
	}
	if err := validateYearRanges(year); err != nil {
		return nil, err
	}

	year.UpdatedBy = &callerID

	if err := s.repo.AcademicYear.Update(ctx, year); err != nil {
		s.logger.Error("更新学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAcademicYearResponse(year), nil
}

func (s *academicYearService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.AcademicYear.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除学年失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar 学年日历导出
// ═══════════════════════════════════════════════════════════
//
// 输出两个全天事件（存在对应日期时）：
//   - 学年：StartDate ~ EndDate
//   - 评教窗口：FeedbackStart ~ FeedbackEnd
// 全天事件的 DTEND 为开区间，因此结束日期 +1 天。

func (s *academicYearService) ExportCalendar(ctx context.Context, id string) ([]byte, string, error) {
	year, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//feedback-portal//academic-year//ZH")
	cal.SetXWRCalName(year.Name)

	added := addAllDayEvent(cal, year.AcademicYearID+"-term@feedback-portal", year.Name, year.StartDate, year.EndDate)
	if addAllDayEvent(cal, year.AcademicYearID+"-feedback@feedback-portal", year.Name+" 评教", year.FeedbackStart, year.FeedbackEnd) {
		added = true
	}
	if !added {
		return nil, "", ErrAcademicYearNoDates
	}

	filename := fmt.Sprintf("%s.ics", year.Name)
	return []byte(cal.Serialize()), filename, nil
}

// addAllDayEvent 起止日期均为空时跳过；只有一端时视为单日事件
func addAllDayEvent(cal *ics.Calendar, uid, summary string, start, end *time.Time) bool {
	if start == nil && end == nil {
		return false
	}
	if start == nil {
		start = end
	}
	if end == nil {
		end = start
	}

	evt := cal.AddEvent(uid)
	evt.SetDtStampTime(time.Now().UTC())
	evt.SetSummary(summary)
	evt.SetAllDayStartAt(*start)
	evt.SetAllDayEndAt(end.AddDate(0, 0, 1))
	return true
}

// ── 内部辅助方法 ──

func (s *academicYearService) load(ctx context.Context, id string) (*model.AcademicYear, error) {
	year, err := s.repo.AcademicYear.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return year, nil
}

// parseDate 空串返回 nil
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, ErrAcademicYearInvalidDate
	}
	return &t, nil
}

func validateYearRanges(y *model.AcademicYear) error {
	if y.StartDate != nil && y.EndDate != nil && y.EndDate.Before(*y.StartDate) {
		return ErrAcademicYearDateRange
	}
	if y.FeedbackStart != nil && y.FeedbackEnd != nil && y.FeedbackEnd.Before(*y.FeedbackStart) {
		return ErrAcademicYearDateRange
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func toAcademicYearResponse(y *model.AcademicYear) *dto.AcademicYearResponse {
	return &dto.AcademicYearResponse{
		ID:            y.AcademicYearID,
		Name:          y.Name,
		Abbreviation:  y.Abbreviation,
		StartDate:     formatDate(y.StartDate),
		EndDate:       formatDate(y.EndDate),
		FeedbackStart: formatDate(y.FeedbackStart),
		FeedbackEnd:   formatDate(y.FeedbackEnd),
	}
}
