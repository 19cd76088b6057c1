package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"

	"github.com/meridian-corporation/trustlens/internal/adapter/collector"
	"github.com/meridian-corporation/trustlens/internal/adapter/llm"
	"github.com/meridian-corporation/trustlens/internal/adapter/repository"
	"github.com/meridian-corporation/trustlens/internal/core/domain"
	"github.com/meridian-corporation/trustlens/internal/core/ports"
	"github.com/meridian-corporation/trustlens/internal/core/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	fmt.Println("🔍 TrustLens - Brand Trust Analysis")
	fmt.Println("====================================")

	req, err := promptRequest()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	reasoning := llm.NewClientFromEnv()
	if !reasoning.Available() {
		fmt.Println("⚠️  No reasoning API key configured - scores will use deterministic fallback")
	}

	serp := collector.NewSerpClientFromEnv(nil)
	if !serp.Available() {
		fmt.Println("⚠️  No search API key configured - product, review and forum collection will fail")
	}

	analyzer, err := service.NewAnalyzer(service.Config{
		Collectors: []ports.Collector{
			collector.NewProductSearch(serp),
			collector.NewReviewFetch(serp),
			collector.NewForumSearch(serp, nil),
			collector.NewWebsiteFetch(nil),
			collector.NewSSLProbe(),
		},
		Scorer:    llm.NewScorer(reasoning),
		Artifacts: repository.NewFileStore(getEnv("ARTIFACT_DIR", ".")),
	})
	if err != nil {
		fmt.Printf("❌ Failed to build analyzer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n⏳ Analyzing %s...\n\n", req.BrandName)
	report := analyzer.Analyze(context.Background(), req)
	printSummary(report)
}

func promptRequest() (domain.AnalysisRequest, error) {
	brandPrompt := promptui.Prompt{
		Label: "Brand name",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("brand name is required")
			}
			return nil
		},
	}
	brand, err := brandPrompt.Run()
	if err != nil {
		return domain.AnalysisRequest{}, fmt.Errorf("brand name is required")
	}

	websitePrompt := promptui.Prompt{Label: "Website (optional)"}
	website, _ := websitePrompt.Run()

	handlePrompt := promptui.Prompt{Label: "Social handle (optional)"}
	handle, _ := handlePrompt.Run()

	return domain.AnalysisRequest{
		BrandName:    strings.TrimSpace(brand),
		Website:      strings.TrimSpace(website),
		SocialHandle: strings.TrimSpace(handle),
	}, nil
}

func printSummary(report domain.AnalysisReport) {
	fmt.Println("====================================")
	fmt.Printf("Brand:          %s\n", report.BrandName)
	fmt.Printf("Trust Score:    %.1f/10\n", report.OverallScore)
	fmt.Printf("Assessment:     %s\n", report.Recommendation)
	fmt.Println("------------------------------------")

	fmt.Println("Component scores:")
	for _, dim := range domain.AllDimensions() {
		component, ok := report.ComponentScores[dim]
		if !ok {
			continue
		}
		fmt.Printf("  %-22s %.1f/10 (%s, %s confidence)\n",
			dim.DisplayName(), component.Score, component.Weight, component.Confidence)
	}

	if len(report.KeyStrengths) > 0 {
		fmt.Println("\nKey strengths:")
		for _, strength := range report.KeyStrengths {
			fmt.Printf("  ✅ %s\n", strength)
		}
	}
	if len(report.AreasOfConcern) > 0 {
		fmt.Println("\nAreas of concern:")
		for _, concern := range report.AreasOfConcern {
			fmt.Printf("  ⚠️  %s\n", concern)
		}
	}

	fmt.Println("\nCollection status:")
	sources := make([]string, 0, len(report.CollectionStatus))
	for source := range report.CollectionStatus {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		fmt.Printf("  %-16s %s\n", source, report.CollectionStatus[source])
	}

	if len(report.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range report.Errors {
			fmt.Printf("  ❌ %s\n", e)
		}
	}

	fmt.Println("====================================")
	fmt.Printf("📄 Saved %s\n", repository.ArtifactName(report.BrandName))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
