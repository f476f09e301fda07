package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// aiRequestMaxChars bounds how much page text is sent per request.
const aiRequestMaxChars = 3000

type AIService struct {
	aiClient aiClient
}

func NewAIService(aiClient aiClient) *AIService {
	return &AIService{aiClient: aiClient}
}

func (a *AIService) IsJobPosting(ctx context.Context, text string) (bool, error) {
	response, err := a.aiClient.GenerateResponse(ctx, a.jobPostingRequest(text))
	if err != nil {
		return false, err
	}

	log.Infof("got response \"%v\" from job posting classifier", response)
	response = strings.ReplaceAll(strings.ToLower(response), "*", "") //model sometimes answers **아니오**

	if hasPrefixes(response, []string{"예", "yes"}) {
		return true, nil
	} else if hasPrefixes(response, []string{"아니오", "아니요", "no"}) {
		return false, nil
	} else {
		return false, fmt.Errorf("unexpected classifier response \"%v\"", response)
	}
}

func (a *AIService) jobPostingRequest(text string) (request string) {

	runes := []rune(text)
	if len(runes) > aiRequestMaxChars {
		text = string(runes[:aiRequestMaxChars])
	}

	request = "다음은 회사 웹사이트에서 수집한 텍스트입니다: " + text
	request += " 이 텍스트가 채용 공고(구인 공고)입니까? " +
		"반드시 \"예\" 또는 \"아니오\"로만 답하세요."
	return request
}

func hasPrefixes(str string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(str, prefix) {
			return true
		}
	}
	return false
}
