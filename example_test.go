package careerbot_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/careerbot"
	"github.com/aretw0/careerbot/pkg/domain"
)

// ExampleBot_Turn runs the first two turns of a conversation without a classifier.
func ExampleBot_Turn() {
	bot, err := careerbot.New()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	for _, text := range []string{"hello", "EY"} {
		actions, err := bot.Turn(ctx, domain.Activity{ConversationID: "demo", UserName: "Sam", Text: text})
		if err != nil {
			log.Fatal(err)
		}
		for _, a := range actions {
			switch a.Type {
			case domain.ActionRenderContent:
				fmt.Println(a.Payload)
			case domain.ActionRenderCard:
				fmt.Println(a.Payload.(domain.Attachment).Choices)
			}
		}
	}

	// Output:
	// Hi Sam, I'm the careers advice bot.
	// [KPMG Deloitte EY PWC]
	// This is for testing the dialog flow. Type an organization name to go back to the menu.
}
