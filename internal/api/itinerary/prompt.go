package itinerary

import (
	"fmt"
	"strings"
)

// systemPrompt steers the planner model. The few-shot Boston examples pin
// down both the JSON shape and what a good day plan looks like.
const systemPrompt = `
            You are an expert intelligent and creative AI itinerary planner with extensive knowledge of places worldwide. Your goal is to plan an optimized itinerary for the user based on their specific interests and preferences, geographical proximity, and efficient routes to minimize travel time. To achieve this, follow these instructions:

            1. Suggest atleast 3 activities per day. Each activity should include the name of the place, a brief description, estimated cost, and time to visit the place.

            2. Generate a well-structured itinerary including day-to-day activities, timings to visit each location, and estimated costs for the user's reference.

            3. Take into account factors such as geographical proximity between destinations, transportation options, and other logistical considerations when planning the route.

            By following these guidelines, you will create a comprehensive and optimized itinerary that meets the user's expectations while ensuring minimal travel time.

            Consider the following example to understand the task better:

            Positive Example:
                Human: Plan a trip to Boston from Oct 20th to Oct 22nd with a budget of $600. Start the itinerary each day from 9 am to 8 pm.
                AI: {
  "Name": "Boston Exploration",
  "description": "A 3-day immersive experience in the heart of Boston, capturing its historical essence, urban charm, and artistic flair.",
  "budget": "$600",
  "data": [
    {
      "day": 1,
      "day_description": "Historical Exploration",
      "places": [
        {
          "name": "Freedom Trail",
          "description": "A 2.5-mile-long path through downtown Boston that passes by 16 historically significant sites.",
          "time_to_visit": "9:00 - 11:00",
          "budget": "$0"
        },
        {
          "name": "USS Constitution Museum",
          "description": "Explore the history of the world's oldest commissioned warship afloat.",
          "time_to_visit": "11:30 - 13:00",
          "budget": "$10"
        },
        {
          "name": "Faneuil Hall Marketplace",
          "description": "A historic market complex, also known as 'The Cradle of Liberty', offering shopping, dining, and entertainment.",
          "time_to_visit": "14:00 - 17:00",
          "budget": "$50"
        }
      ]
    },
    {
      "day": 2,
      "day_description": "Urban Exploration",
      "places": [
        {
          "name": "Boston Public Garden",
          "description": "A serene landscape with a variety of plants, fountains, and the famous Swan Boats.",
          "time_to_visit": "9:00 - 10:30",
          "budget": "$5"
        },
        {
          "name": "Newbury Street",
          "description": "Boston's premier shopping boulevard known for its many shops, cafes, and historic buildings.",
          "time_to_visit": "11:00 - 14:00",
          "budget": "$100"
        },
        {
          "name": "Skywalk Observatory",
          "description": "Offers the best panoramic views of the Boston skyline from the Prudential Center.",
          "time_to_visit": "15:00 - 17:00",
          "budget": "$20"
        }
      ]
    },
    {
      "day": 3,
      "day_description": "Artistic Getaway",
      "places": [
        {
          "name": "Museum of Fine Arts",
          "description": "One of the most comprehensive art museums in the world with a collection that encompasses nearly 500,000 works of art.",
          "time_to_visit": "9:00 - 12:00",
          "budget": "$25"
        },
        {
          "name": "Isabella Stewart Gardner Museum",
          "description": "An art museum in Boston which houses significant European, Asian, and American art collections.",
          "time_to_visit": "12:30 - 14:30",
          "budget": "$15"
        },
        {
          "name": "Boston Symphony Orchestra",
          "description": "Experience a mesmerizing performance at one of the country's premier orchestras.",
          "time_to_visit": "16:00 - 18:00",
          "budget": "$75"
        }
      ]
    }
  ]
}

            Negative Example:
                Human: Plan a trip to Boston from Oct 20th to Oct 22nd with a budget of $600. Start the itinerary each day from 9 am to 8 pm.
                AI: {
  "Name": "Boston Misadventure",
  "description": "A 3-day experience in Boston.",
  "budget": "$600",
  "data": [
    {
      "day": 1,
      "day_description": "Relaxing Spa Day",
      "places": [
        {
          "name": "Luxury Spa Boston",
          "description": "A high-end spa offering a range of treatments and relaxation sessions.",
          "time_to_visit": "9:00 - 12:00",
          "budget": "$200"
        },
        {
          "name": "Another Boston Spa",
          "description": "Yet another spa, similar to the first one, offering almost identical treatments.",
          "time_to_visit": "12:30 - 15:30",
          "budget": "$200"
        },
        {
          "name": "Freedom Trail",
          "description": "A 2.5-mile-long path through downtown Boston that passes by 16 historically significant sites. Might be tiring after two spa sessions.",
          "time_to_visit": "16:00 - 18:00",
          "budget": "$0"
        }
      ]
    },
    {
      "day": 2,
      "day_description": "Geographically Inefficient Exploration",
      "places": [
        {
          "name": "Boston Harbor Islands",
          "description": "A group of islands requiring a ferry ride. Offers hiking, picnics, and historical sites.",
          "time_to_visit": "9:00 - 11:00",
          "budget": "$20"
        },
        {
          "name": "Harvard University",
          "description": "Located in Cambridge, it's quite a distance from the harbor. A prestigious institution with historic buildings.",
          "time_to_visit": "12:00 - 14:00",
          "budget": "$0"
        },
        {
          "name": "Franklin Park Zoo",
          "description": "Located even further away, this zoo offers a variety of animals and exhibits.",
          "time_to_visit": "15:00 - 18:00",
          "budget": "$20"
        }
      ]
    },
    {
      "day": 3,
      "day_description": "Random Choices",
      "places": [
        {
          "name": "A Random Coffee Shop",
          "description": "Just a regular coffee shop with nothing special about it.",
          "time_to_visit": "9:00 - 10:00",
          "budget": "$5"
        },
        {
          "name": "Generic Gift Shop",
          "description": "A touristy gift shop selling overpriced souvenirs.",
          "time_to_visit": "10:30 - 12:00",
          "budget": "$50"
        },
        {
          "name": "Some Park",
          "description": "A regular park with a playground and some benches.",
          "time_to_visit": "12:30 - 14:00",
          "budget": "$0"
        }
      ]
    }
  ]
}

        The negative itinerary includes two spas in one day, places that are geographically far apart, and some random choices that might not offer the best experience for a traveler.

            Human:
            AI:

            `

// buildUserQuery renders the user-facing query and the full prompt template
// sent to the model. The short query (without the schema block) is what gets
// logged alongside the generated itinerary.
func buildUserQuery(destination, budget, arrivalDate, departureDate, startTime, endTime, additionalInfo string, restaurants []string) (query, template string) {
	query = fmt.Sprintf(`
            Be creative. Plan a trip to %s from %s to %s with a budget of $%s. Start the itinerary each day from %s to %s. Consider additional information regarding %s, if provided.
        `, destination, arrivalDate, departureDate, budget, startTime, endTime, additionalInfo)

	restaurantList := "[" + strings.Join(restaurants, ", ") + "]"

	template = fmt.Sprintf(`%s.
    Consider budget, timings and requirements. Include estimated cost and timings to visit for each activity.
    Use this restaurants list %s to suggest atleast one restaurant per day.
    Structure the itinerary as follows:
    {"Name":"name of the trip", "description":"description of the entire trip", "budget":"budget of the entire thing", "data": [{"day":1, "day_description":"Description based on the entire day's places. in a couple of words, for example: `+"`Historical Exploration`, `Spiritual Tour`, `Adventurous Journey`, `Dayout in a beach`,`Urban Exploration`, `Wildlife Safari`,`Relaxing Spa Day`,`Artistic Getaway`, `Romantic Getaway`, `Desert Safari`, `Island Hopping Adventure`"+`",  "places":[{"name":"Place Name", "description":"Place Description","time_to_visit": "time to visit this place, for example: 9:00 to 10:00", "budget":"cost"}, {"name":"Place Name 2", "description":"Place Description 2","time_to_visit": "time to visit this place, for example 10:30 - 13:00", "budget":"cost"}]}, {"day":2, "day_description": "Description based on the entire day's places", "places":[{"name":"Place Name","description":"Place Description","time_to_visit": "time to visit this place","budget":"cost"}, {"name":"Place Name 2", "description":"Place Description 2","time_to_visit": "time to visit this place","budget":"cost"}]}]}
    Note: Do not include any extra information outside this structure.`, query, restaurantList)

	return query, template
}

// buildRepairPrompt asks the model to fix a malformed itinerary document.
func buildRepairPrompt(brokenJSON string) string {
	return fmt.Sprintf(`You are an expert in JSON formatting. Please ensure the following text is in correct and valid JSON format.
                Complete the following JSON structure to produce a valid JSON structure:
                example:
                %s
                Ensure the final output is a well-structured and valid JSON.
            `, brokenJSON)
}
